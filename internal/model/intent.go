package model

import (
	"fmt"
	"strings"
)

// IntentDocument is the author-facing input: a product spec plus the list of
// diagrams the author wants generated. It is immutable once expanded.
type IntentDocument struct {
	Name                      string                     `yaml:"name"`
	Version                   string                     `yaml:"version,omitempty"`
	Requirements              Requirements               `yaml:"requirements"`
	DiagramRequests           []DiagramRequest           `yaml:"diagram_requests"`
	DocumentationInstructions *DocumentationInstructions `yaml:"documentation_instructions,omitempty"`
	PresentationInstructions  *PresentationInstructions  `yaml:"presentation_instructions,omitempty"`
	Preferences               *Preferences               `yaml:"preferences,omitempty"`
	Metadata                  map[string]any             `yaml:"metadata,omitempty"`
}

// Requirements carries the product spec either inline or as a file reference.
// Exactly one of Content and FilePath must be set.
type Requirements struct {
	Content  string   `yaml:"content,omitempty"`
	FilePath string   `yaml:"file_path,omitempty"`
	Format   string   `yaml:"format,omitempty"`
	Sections []string `yaml:"sections,omitempty"`
}

var validRequirementFormats = map[string]bool{
	"markdown": true,
	"text":     true,
	"html":     true,
}

// DiagramRequest is one desired diagram, named by category.
type DiagramRequest struct {
	Category           DiagramCategory `yaml:"category"`
	Description        string          `yaml:"description,omitempty"`
	PreferredFramework Framework       `yaml:"preferred_framework,omitempty"`
}

// DocumentationInstructions steers markdown content generation.
type DocumentationInstructions struct {
	Style                 string   `yaml:"style,omitempty"`
	Audience              string   `yaml:"audience,omitempty"`
	Sections              []string `yaml:"sections,omitempty"`
	DetailLevel           string   `yaml:"detail_level,omitempty"`
	IncludeCodeExamples   bool     `yaml:"include_code_examples,omitempty"`
	IncludeDiagramsInline bool     `yaml:"include_diagrams_inline,omitempty"`
}

var validDocStyles = map[string]bool{
	"technical": true,
	"business":  true,
	"tutorial":  true,
	"reference": true,
}

var validDetailLevels = map[string]bool{
	"high-level":    true,
	"detailed":      true,
	"comprehensive": true,
}

// PresentationInstructions steers slide generation.
type PresentationInstructions struct {
	Audience            string   `yaml:"audience,omitempty"`
	MaxSlides           int      `yaml:"max_slides,omitempty"`
	Style               string   `yaml:"style,omitempty"`
	IncludeSpeakerNotes bool     `yaml:"include_speaker_notes,omitempty"`
	EmphasisPoints      []string `yaml:"emphasis_points,omitempty"`
	TimeLimit           int      `yaml:"time_limit,omitempty"`
}

var validPresentationStyles = map[string]bool{
	"executive": true,
	"technical": true,
	"sales":     true,
	"workshop":  true,
}

// Preferences holds author-wide generation defaults.
type Preferences struct {
	DefaultFramework Framework         `yaml:"default_framework,omitempty"`
	DiagramStyle     string            `yaml:"diagram_style,omitempty"`
	ColorScheme      string            `yaml:"color_scheme,omitempty"`
	Theme            string            `yaml:"theme,omitempty"`
	CustomTemplates  map[string]string `yaml:"custom_templates,omitempty"`
}

// Validate normalizes the document in place and returns every defect found.
// Normalization: version defaults to 1.0.0, requirements format defaults to
// markdown, diagram categories are lowercased with spaces folded to
// underscores.
func (d *IntentDocument) Validate() ErrorList {
	var errs ErrorList

	checkString(&errs, "name", d.Name, ruleDocName)

	if d.Version == "" {
		d.Version = "1.0.0"
	}
	checkString(&errs, "version", d.Version, ruleVersion)

	d.validateRequirements(&errs)
	d.validateDiagramRequests(&errs)

	if d.DocumentationInstructions != nil {
		d.DocumentationInstructions.validate(&errs, "documentation_instructions")
	}
	if d.PresentationInstructions != nil {
		d.PresentationInstructions.validate(&errs, "presentation_instructions")
	}
	if d.Preferences != nil {
		d.Preferences.validate(&errs, "preferences")
	}

	return errs
}

func (d *IntentDocument) validateRequirements(errs *ErrorList) {
	r := &d.Requirements

	hasContent := r.Content != ""
	hasFile := r.FilePath != ""
	switch {
	case !hasContent && !hasFile:
		errs.Add("requirements", "must provide either content or file_path", ErrorTypeCrossField)
	case hasContent && hasFile:
		errs.Add("requirements", "cannot provide both content and file_path", ErrorTypeCrossField)
	}

	if hasContent {
		checkString(errs, "requirements.content", r.Content, ruleContent)
	}
	if hasFile {
		checkPath(errs, "requirements.file_path", r.FilePath, nil)
		if fileExt(r.FilePath) == "" {
			errs.Add("requirements.file_path", "must have a file extension", ErrorTypeConstraint)
		}
	}

	if r.Format == "" {
		r.Format = "markdown"
	}
	checkEnum(errs, "requirements.format", r.Format, validRequirementFormats)

	for i, s := range r.Sections {
		if strings.TrimSpace(s) == "" {
			errs.Add(fmt.Sprintf("requirements.sections[%d]", i), "section name cannot be empty", ErrorTypeConstraint)
		}
	}
}

func (d *IntentDocument) validateDiagramRequests(errs *ErrorList) {
	if len(d.DiagramRequests) == 0 {
		errs.Add("diagram_requests", "at least one diagram request is required", ErrorTypeConstraint)
		return
	}

	seen := map[string]bool{}
	for i, req := range d.DiagramRequests {
		field := fmt.Sprintf("diagram_requests[%d]", i)

		normalized := DiagramCategory(strings.ReplaceAll(strings.ToLower(string(req.Category)), " ", "_"))
		d.DiagramRequests[i].Category = normalized
		if !IsValidCategory(normalized) {
			errs.Add(field+".category", fmt.Sprintf("unknown diagram category %q", req.Category), ErrorTypeConstraint)
		}

		checkString(errs, field+".description", req.Description, ruleDescription)

		if req.PreferredFramework != "" && !IsValidFramework(req.PreferredFramework) {
			errs.Add(field+".preferred_framework", fmt.Sprintf("unknown framework %q", req.PreferredFramework), ErrorTypeConstraint)
		}

		key := string(normalized) + "|" + req.Description
		if seen[key] {
			errs.Add(field, fmt.Sprintf("duplicate diagram request: %s", normalized), ErrorTypeConstraint)
		}
		seen[key] = true
	}
}

func (di *DocumentationInstructions) validate(errs *ErrorList, prefix string) {
	if di.Style != "" {
		checkEnum(errs, prefix+".style", di.Style, validDocStyles)
	}
	checkString(errs, prefix+".audience", di.Audience, ruleDescription)
	if di.DetailLevel != "" {
		checkEnum(errs, prefix+".detail_level", di.DetailLevel, validDetailLevels)
	}
	for i, s := range di.Sections {
		if strings.TrimSpace(s) == "" {
			errs.Add(fmt.Sprintf("%s.sections[%d]", prefix, i), "section name cannot be empty", ErrorTypeConstraint)
		}
	}
}

func (pi *PresentationInstructions) validate(errs *ErrorList, prefix string) {
	if pi.Style != "" {
		checkEnum(errs, prefix+".style", pi.Style, validPresentationStyles)
	}
	checkString(errs, prefix+".audience", pi.Audience, ruleDescription)
	if pi.MaxSlides != 0 && (pi.MaxSlides < 5 || pi.MaxSlides > 100) {
		errs.Add(prefix+".max_slides", "must be between 5 and 100", ErrorTypeConstraint)
	}
	if pi.TimeLimit < 0 {
		errs.Add(prefix+".time_limit", "must be a positive number of minutes", ErrorTypeConstraint)
	}
}

func (p *Preferences) validate(errs *ErrorList, prefix string) {
	if p.DefaultFramework != "" && !IsValidFramework(p.DefaultFramework) {
		errs.Add(prefix+".default_framework", fmt.Sprintf("unknown framework %q", p.DefaultFramework), ErrorTypeConstraint)
	}
}
