// Package transform expands a validated intent document into an
// execution-plan document: one diagram job and reference per request, plus
// the content files that will embed the generated diagrams. The result is
// re-validated before it is returned, so callers never see a plan the
// validators would reject.
package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/t2dkit/t2d/internal/compat"
	"github.com/t2dkit/t2d/internal/consistency"
	"github.com/t2dkit/t2d/internal/model"
)

// frameworkSourceExts maps a framework to its diagram source extension.
var frameworkSourceExts = map[model.Framework]string{
	model.FrameworkD2:       ".d2",
	model.FrameworkMermaid:  ".mmd",
	model.FrameworkPlantUML: ".puml",
	model.FrameworkGraphviz: ".gv",
}

// frameworkWorkers maps a framework to the generation worker that renders it.
var frameworkWorkers = map[model.Framework]string{
	model.FrameworkD2:       "t2d-d2-generator",
	model.FrameworkMermaid:  "t2d-mermaid-generator",
	model.FrameworkPlantUML: "t2d-plantuml-generator",
	model.FrameworkGraphviz: "t2d-graphviz-generator",
}

const (
	documentationWorker = "t2d-mkdocs-generator"
	presentationWorker  = "t2d-slides-generator"
)

// Expand builds an execution plan from an already-validated intent document.
// sourcePath records where the intent document lives so workers can trace a
// plan back to its input.
func Expand(intent *model.IntentDocument, sourcePath string) (*model.ExecutionPlanDocument, error) {
	now := model.FormatTimestamp(time.Now())

	plan := &model.ExecutionPlanDocument{
		Name:               intent.Name,
		Version:            intent.Version,
		SourceDocumentPath: sourcePath,
		GeneratedAt:        now,
		OutputConfig: model.OutputConfig{
			AssetsDir: "docs/assets",
		},
	}

	var notes []string
	seq := map[model.DiagramCategory]int{}
	for _, req := range intent.DiagramRequests {
		seq[req.Category]++
		job, note := buildJob(intent, req, seq[req.Category], plan.OutputConfig.AssetsDir)
		plan.DiagramJobs = append(plan.DiagramJobs, job)
		plan.DiagramReferences = append(plan.DiagramReferences, buildReference(job, req, plan.OutputConfig.AssetsDir))
		if note != "" {
			notes = append(notes, note)
		}
	}

	plan.ContentFiles = buildContentFiles(intent, plan.DiagramJobs, now)
	plan.GenerationNotes = notes

	if errs := compat.ResolvePlan(plan); len(errs) > 0 {
		return nil, fmt.Errorf("expand %s: %w", intent.Name, errs)
	}
	if errs := plan.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("expand %s: %w", intent.Name, errs)
	}
	if errs := consistency.Check(plan); len(errs) > 0 {
		return nil, fmt.Errorf("expand %s: %w", intent.Name, errs)
	}

	return plan, nil
}

func buildJob(intent *model.IntentDocument, req model.DiagramRequest, seq int, assetsDir string) (model.DiagramJob, string) {
	fw, note := chooseFramework(intent, req)
	id := fmt.Sprintf("%s-%03d", req.Category, seq)

	instructions := fmt.Sprintf("Generate a %s diagram for %s based on the product requirements.",
		strings.ReplaceAll(string(req.Category), "_", " "), intent.Name)
	if req.Description != "" {
		instructions = fmt.Sprintf("%s Focus: %s", instructions, req.Description)
	}

	return model.DiagramJob{
		ID:           id,
		Category:     req.Category,
		Framework:    fw,
		WorkerName:   frameworkWorkers[fw],
		Title:        diagramTitle(req),
		Instructions: instructions,
		OutputPath:   fmt.Sprintf("%s/src/%s%s", assetsDir, id, frameworkSourceExts[fw]),
	}, note
}

// chooseFramework honors, in order: the request's preference, the document's
// default preference, the category table.
func chooseFramework(intent *model.IntentDocument, req model.DiagramRequest) (model.Framework, string) {
	if req.PreferredFramework.IsResolved() && compat.Supports(req.PreferredFramework, req.Category) {
		return req.PreferredFramework, ""
	}
	if intent.Preferences != nil {
		def := intent.Preferences.DefaultFramework
		if def.IsResolved() && compat.Supports(def, req.Category) {
			return def, ""
		}
	}
	fw := compat.PreferredFramework(req.Category)
	note := ""
	if req.PreferredFramework.IsResolved() && !compat.Supports(req.PreferredFramework, req.Category) {
		note = fmt.Sprintf("%s: preferred framework %s does not support %s, using %s",
			req.Category, req.PreferredFramework, req.Category, fw)
	}
	return fw, note
}

func buildReference(job model.DiagramJob, req model.DiagramRequest, assetsDir string) model.DiagramReference {
	return model.DiagramReference{
		ID:           job.ID,
		Title:        job.Title,
		Category:     job.Category,
		ExpectedPath: fmt.Sprintf("%s/%s.%s", assetsDir, job.ID, compat.DefaultFormat),
		Description:  req.Description,
		Status:       model.StatusPending,
	}
}

func buildContentFiles(intent *model.IntentDocument, jobs []model.DiagramJob, now string) []model.ContentFile {
	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}

	files := []model.ContentFile{
		{
			ID:          "documentation",
			Path:        "docs/index.md",
			Type:        model.ContentDocumentation,
			WorkerName:  documentationWorker,
			BasePrompt:  fmt.Sprintf("Write comprehensive technical documentation for %s based on the product requirements.", intent.Name),
			DiagramRefs: ids,
			Title:       intent.Name + " Documentation",
			LastUpdated: now,
		},
	}

	if intent.PresentationInstructions != nil {
		files = append(files, model.ContentFile{
			ID:          "presentation",
			Path:        "docs/slides.md",
			Type:        model.ContentPresentation,
			WorkerName:  presentationWorker,
			BasePrompt:  fmt.Sprintf("Create a slide deck presenting %s to its intended audience.", intent.Name),
			DiagramRefs: ids,
			Title:       intent.Name + " Slides",
			LastUpdated: now,
		})
	}

	return files
}

func diagramTitle(req model.DiagramRequest) string {
	words := strings.Split(strings.ReplaceAll(string(req.Category), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Diagram"
}
