// Package consistency runs the cross-collection checks an execution-plan
// document must pass after its fields validate: identifier uniqueness,
// job/reference set equality, content-file reference membership, and
// generation-timestamp sanity. All checks accumulate so one call surfaces the
// complete defect list.
package consistency

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/t2dkit/t2d/internal/model"
)

// Check validates the cross-references of an already field-valid plan.
func Check(plan *model.ExecutionPlanDocument) model.ErrorList {
	var errs model.ErrorList

	checkUniqueIDs(&errs, plan)
	checkJobReferenceEquality(&errs, plan)
	checkContentFileRefs(&errs, plan)
	checkGeneratedAt(&errs, plan)

	return errs
}

func checkUniqueIDs(errs *model.ErrorList, plan *model.ExecutionPlanDocument) {
	seen := map[string]bool{}
	for _, job := range plan.DiagramJobs {
		if seen[job.ID] {
			errs.Add("diagram_jobs", fmt.Sprintf("duplicate diagram job id %q", job.ID), model.ErrorTypeConsistency)
		}
		seen[job.ID] = true
	}

	seen = map[string]bool{}
	for _, cf := range plan.ContentFiles {
		if seen[cf.ID] {
			errs.Add("content_files", fmt.Sprintf("duplicate content file id %q", cf.ID), model.ErrorTypeConsistency)
		}
		seen[cf.ID] = true
	}
}

// checkJobReferenceEquality requires {job.id} == {reference.id} and names
// every identifier present on one side only.
func checkJobReferenceEquality(errs *model.ErrorList, plan *model.ExecutionPlanDocument) {
	jobIDs := map[string]bool{}
	for _, job := range plan.DiagramJobs {
		jobIDs[job.ID] = true
	}
	refIDs := map[string]bool{}
	for _, ref := range plan.DiagramReferences {
		refIDs[ref.ID] = true
	}

	var missing, extra []string
	for id := range jobIDs {
		if !refIDs[id] {
			missing = append(missing, id)
		}
	}
	for id := range refIDs {
		if !jobIDs[id] {
			extra = append(extra, id)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		errs.Add("diagram_references", fmt.Sprintf("missing references for diagram jobs: %s", strings.Join(missing, ", ")), model.ErrorTypeConsistency)
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		errs.Add("diagram_references", fmt.Sprintf("references without a diagram job: %s", strings.Join(extra, ", ")), model.ErrorTypeConsistency)
	}
}

// checkContentFileRefs requires every content-file diagram_ref to name an
// existing diagram job.
func checkContentFileRefs(errs *model.ErrorList, plan *model.ExecutionPlanDocument) {
	jobIDs := map[string]bool{}
	for _, job := range plan.DiagramJobs {
		jobIDs[job.ID] = true
	}

	for i, cf := range plan.ContentFiles {
		var invalid []string
		for _, ref := range cf.DiagramRefs {
			if !jobIDs[ref] {
				invalid = append(invalid, ref)
			}
		}
		if len(invalid) > 0 {
			sort.Strings(invalid)
			errs.Add(
				fmt.Sprintf("content_files[%d].diagram_refs", i),
				fmt.Sprintf("content file %q references unknown diagrams: %s", cf.Path, strings.Join(invalid, ", ")),
				model.ErrorTypeConsistency,
			)
		}
	}
}

func checkGeneratedAt(errs *model.ErrorList, plan *model.ExecutionPlanDocument) {
	if plan.GeneratedAt == "" {
		return // field validation already reported it
	}
	ts, err := model.ParseTimestamp(plan.GeneratedAt)
	if err != nil {
		return
	}
	if ts.After(time.Now().In(ts.Location())) {
		errs.Add("generated_at", fmt.Sprintf("generation time %s is in the future", plan.GeneratedAt), model.ErrorTypeConsistency)
	}
}
