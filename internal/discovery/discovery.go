// Package discovery scans a directory for pipeline documents and summarizes
// them. Intent documents are *.yaml; expanded plans use the *.t2d.yaml
// suffix so the two never collide.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/t2dkit/t2d/internal/compat"
	"github.com/t2dkit/t2d/internal/consistency"
	"github.com/t2dkit/t2d/internal/model"
)

// PlanSuffix marks a file as an expanded execution-plan document.
const PlanSuffix = ".t2d.yaml"

// Summary describes one discovered document.
type Summary struct {
	Name       string
	Path       string
	Modified   time.Time
	SizeBytes  int64
	Valid      bool
	ErrorCount int
}

// Intents lists the intent documents under dir, parsing them concurrently.
// A missing directory yields an empty list.
func Intents(dir string) ([]Summary, error) {
	return scan(dir, func(name string) bool {
		return strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, PlanSuffix)
	}, func(data []byte) int {
		_, errs := model.ParseIntent(data)
		return len(errs)
	})
}

// Plans lists the execution-plan documents under dir. Validity covers field
// constraints, framework resolution, and cross-collection consistency.
func Plans(dir string) ([]Summary, error) {
	return scan(dir, func(name string) bool {
		return strings.HasSuffix(name, PlanSuffix)
	}, func(data []byte) int {
		plan, errs := model.ParsePlan(data)
		if plan == nil {
			return len(errs)
		}
		all := errs
		all.Merge(compat.ResolvePlan(plan))
		all.Merge(consistency.Check(plan))
		return len(all)
	})
}

func scan(dir string, match func(string) bool, countErrors func([]byte) int) ([]Summary, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.IsDir() && match(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	summaries := make([]Summary, len(paths))
	var g errgroup.Group
	g.SetLimit(8)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			n := countErrors(data)
			summaries[i] = Summary{
				Name:       docName(path),
				Path:       path,
				Modified:   info.ModTime(),
				SizeBytes:  info.Size(),
				Valid:      n == 0,
				ErrorCount: n,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func docName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, PlanSuffix)
	return strings.TrimSuffix(name, ".yaml")
}
