package model

import (
	"fmt"
	"strings"
	"time"
)

// ExecutionPlanDocument is the machine-expanded counterpart of an
// IntentDocument: concrete per-diagram jobs, the content files that will
// embed them, and their cross-references. Workers mutate it in place as
// generation progresses.
type ExecutionPlanDocument struct {
	Name               string             `yaml:"name"`
	Version            string             `yaml:"version"`
	SourceDocumentPath string             `yaml:"source_document_path"`
	GeneratedAt        string             `yaml:"generated_at"`
	DiagramJobs        []DiagramJob       `yaml:"diagram_jobs"`
	ContentFiles       []ContentFile      `yaml:"content_files"`
	DiagramReferences  []DiagramReference `yaml:"diagram_references"`
	OutputConfig       OutputConfig       `yaml:"output_configuration"`
	GenerationNotes    []string           `yaml:"generation_notes,omitempty"`
}

// DiagramJob is one concrete request to render a single diagram.
type DiagramJob struct {
	ID            string          `yaml:"id"`
	Category      DiagramCategory `yaml:"category"`
	Framework     Framework       `yaml:"framework,omitempty"`
	WorkerName    string          `yaml:"worker_name"`
	Title         string          `yaml:"title"`
	Instructions  string          `yaml:"instructions"`
	OutputPath    string          `yaml:"output_path"`
	OutputFormats []OutputFormat  `yaml:"output_formats,omitempty"`
	Options       map[string]any  `yaml:"options,omitempty"`
}

// diagramSourceExts drives framework auto-detection from the output path.
var diagramSourceExts = map[string]bool{
	".d2":   true,
	".mmd":  true,
	".puml": true,
	".gv":   true,
	".md":   true,
}

// DiagramReference describes where a job's output is expected and, once a
// worker reports back, where it actually landed.
type DiagramReference struct {
	ID           string                  `yaml:"id"`
	Title        string                  `yaml:"title"`
	Category     DiagramCategory         `yaml:"category"`
	ExpectedPath string                  `yaml:"expected_path"`
	ActualPaths  map[OutputFormat]string `yaml:"actual_paths,omitempty"`
	Description  string                  `yaml:"description,omitempty"`
	Status       GenerationStatus        `yaml:"status"`
}

// ContentFile is a markdown file a content worker maintains.
type ContentFile struct {
	ID          string      `yaml:"id"`
	Path        string      `yaml:"path"`
	Type        ContentType `yaml:"type"`
	WorkerName  string      `yaml:"worker_name"`
	BasePrompt  string      `yaml:"base_prompt"`
	DiagramRefs []string    `yaml:"diagram_refs,omitempty"`
	Title       string      `yaml:"title,omitempty"`
	LastUpdated string      `yaml:"last_updated"`
}

var markdownExts = map[string]bool{
	".md":       true,
	".markdown": true,
}

// OutputConfig configures where generated assets land.
type OutputConfig struct {
	AssetsDir    string         `yaml:"assets_dir"`
	SiteConfig   map[string]any `yaml:"site_config,omitempty"`
	SlidesConfig map[string]any `yaml:"slides_config,omitempty"`
}

// Validate normalizes the document in place and returns every field-level
// defect. Cross-collection checks (job/reference set equality, content-file
// subset membership, generated_at sanity) live in the consistency package.
func (p *ExecutionPlanDocument) Validate() ErrorList {
	var errs ErrorList

	checkString(&errs, "name", p.Name, ruleDocName)
	checkString(&errs, "version", p.Version, ruleVersion)
	checkPath(&errs, "source_document_path", p.SourceDocumentPath, nil)

	if p.GeneratedAt == "" {
		errs.Add("generated_at", "is required", ErrorTypeConstraint)
	} else if _, err := ParseTimestamp(p.GeneratedAt); err != nil {
		errs.Add("generated_at", err.Error(), ErrorTypeConstraint)
	}

	if len(p.DiagramJobs) == 0 {
		errs.Add("diagram_jobs", "at least one diagram job is required", ErrorTypeConstraint)
	}
	if len(p.ContentFiles) == 0 {
		errs.Add("content_files", "at least one content file is required", ErrorTypeConstraint)
	}
	if len(p.DiagramReferences) == 0 {
		errs.Add("diagram_references", "at least one diagram reference is required", ErrorTypeConstraint)
	}

	for i := range p.DiagramJobs {
		p.DiagramJobs[i].validate(&errs, fmt.Sprintf("diagram_jobs[%d]", i))
	}
	for i := range p.ContentFiles {
		p.ContentFiles[i].validate(&errs, fmt.Sprintf("content_files[%d]", i))
	}
	for i := range p.DiagramReferences {
		p.DiagramReferences[i].validate(&errs, fmt.Sprintf("diagram_references[%d]", i))
	}

	if p.OutputConfig.AssetsDir == "" {
		p.OutputConfig.AssetsDir = "docs/assets"
	}
	checkPath(&errs, "output_configuration.assets_dir", p.OutputConfig.AssetsDir, nil)

	return errs
}

func (j *DiagramJob) validate(errs *ErrorList, prefix string) {
	checkString(errs, prefix+".id", j.ID, ruleID)

	if !IsValidCategory(j.Category) {
		errs.Add(prefix+".category", fmt.Sprintf("unknown diagram category %q", j.Category), ErrorTypeConstraint)
	}
	if j.Framework != "" && !IsValidFramework(j.Framework) {
		errs.Add(prefix+".framework", fmt.Sprintf("unknown framework %q", j.Framework), ErrorTypeConstraint)
	}

	checkString(errs, prefix+".worker_name", j.WorkerName, ruleWorkerName)
	checkString(errs, prefix+".title", j.Title, ruleTitle)
	checkString(errs, prefix+".instructions", j.Instructions, ruleInstructions)
	checkMinWords(errs, prefix+".instructions", j.Instructions, 5)
	checkPath(errs, prefix+".output_path", j.OutputPath, diagramSourceExts)

	for i, f := range j.OutputFormats {
		if !IsValidFormat(f) {
			errs.Add(fmt.Sprintf("%s.output_formats[%d]", prefix, i), fmt.Sprintf("unknown output format %q", f), ErrorTypeConstraint)
		}
	}
}

func (c *ContentFile) validate(errs *ErrorList, prefix string) {
	checkString(errs, prefix+".id", c.ID, ruleID)
	checkPath(errs, prefix+".path", c.Path, markdownExts)
	checkEnum(errs, prefix+".type", string(c.Type), validContentTypes)
	checkString(errs, prefix+".worker_name", c.WorkerName, ruleWorkerName)
	checkString(errs, prefix+".base_prompt", c.BasePrompt, ruleInstructions)

	// Diagram paths are injected at dispatch time; a base prompt naming them
	// would go stale the moment outputs move.
	lower := strings.ToLower(c.BasePrompt)
	if strings.Contains(lower, "diagram") && (strings.Contains(c.BasePrompt, "![") || strings.Contains(lower, "path")) {
		errs.Add(prefix+".base_prompt", "must not embed diagram-specific paths; diagram context is injected at dispatch time", ErrorTypeConstraint)
	}

	for i, ref := range c.DiagramRefs {
		checkString(errs, fmt.Sprintf("%s.diagram_refs[%d]", prefix, i), ref, ruleID)
	}

	if c.Title != "" {
		checkString(errs, prefix+".title", c.Title, ruleTitle)
	}
	if c.LastUpdated == "" {
		errs.Add(prefix+".last_updated", "is required", ErrorTypeConstraint)
	} else if _, err := ParseTimestamp(c.LastUpdated); err != nil {
		errs.Add(prefix+".last_updated", err.Error(), ErrorTypeConstraint)
	}
}

func (r *DiagramReference) validate(errs *ErrorList, prefix string) {
	checkString(errs, prefix+".id", r.ID, ruleID)
	checkString(errs, prefix+".title", r.Title, ruleTitle)
	if !IsValidCategory(r.Category) {
		errs.Add(prefix+".category", fmt.Sprintf("unknown diagram category %q", r.Category), ErrorTypeConstraint)
	}
	checkPath(errs, prefix+".expected_path", r.ExpectedPath, nil)
	checkString(errs, prefix+".description", r.Description, ruleDescription)

	if r.Status == "" {
		r.Status = StatusPending
	}
	checkEnum(errs, prefix+".status", string(r.Status), validStatuses)

	for format, path := range r.ActualPaths {
		if !IsValidFormat(format) {
			errs.Add(prefix+".actual_paths", fmt.Sprintf("unknown output format %q", format), ErrorTypeConstraint)
		}
		checkPath(errs, fmt.Sprintf("%s.actual_paths[%s]", prefix, format), path, nil)
	}
}

// timestampLayouts are tried in order. Naive layouts (no zone) are read as
// UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601-ish timestamp string; timestamps without
// zone information are treated as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %q", s)
}

// FormatTimestamp renders a timestamp the way documents store them.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
