// Package compat holds the static compatibility matrix between diagram
// categories, rendering frameworks, and output formats, and the resolution
// step that fills in an unspecified framework for a job.
package compat

import (
	"fmt"
	"sort"
	"strings"

	"github.com/t2dkit/t2d/internal/model"
)

// Capabilities is one framework's supported category and format sets.
type Capabilities struct {
	Categories map[model.DiagramCategory]bool
	Formats    map[model.OutputFormat]bool
}

var renderFormats = map[model.OutputFormat]bool{
	model.FormatSVG: true,
	model.FormatPNG: true,
	model.FormatPDF: true,
}

// frameworkCapabilities is the authoritative matrix. A category absent from
// every framework's set cannot be rendered at all and fails validation hard.
var frameworkCapabilities = map[model.Framework]Capabilities{
	model.FrameworkD2: {
		Categories: map[model.DiagramCategory]bool{
			model.CategoryC4Context:    true,
			model.CategoryC4Container:  true,
			model.CategoryC4Component:  true,
			model.CategoryArchitecture: true,
			model.CategoryFlowchart:    true,
		},
		Formats: renderFormats,
	},
	model.FrameworkMermaid: {
		Categories: map[model.DiagramCategory]bool{
			model.CategorySequence:     true,
			model.CategoryFlowchart:    true,
			model.CategoryERD:          true,
			model.CategoryGantt:        true,
			model.CategoryState:        true,
			model.CategoryClass:        true,
			model.CategoryPie:          true,
			model.CategoryJourney:      true,
			model.CategoryQuadrant:     true,
			model.CategoryRequirement:  true,
			model.CategoryGitgraph:     true,
			model.CategoryMindmap:      true,
			model.CategoryTimeline:     true,
			model.CategorySankey:       true,
			model.CategoryXYChart:      true,
			model.CategoryBlock:        true,
			model.CategoryPacket:       true,
			model.CategoryArchitecture: true,
			model.CategoryKanban:       true,
			model.CategoryC4Context:    true,
			model.CategoryC4Container:  true,
		},
		Formats: renderFormats,
	},
	model.FrameworkPlantUML: {
		Categories: map[model.DiagramCategory]bool{
			model.CategorySequence:      true,
			model.CategoryClass:         true,
			model.CategoryState:         true,
			model.CategoryC4Context:     true,
			model.CategoryC4Container:   true,
			model.CategoryUMLUsecase:    true,
			model.CategoryUMLActivity:   true,
			model.CategoryUMLComponent:  true,
			model.CategoryUMLDeployment: true,
			model.CategoryUMLObject:     true,
			model.CategoryUMLPackage:    true,
			model.CategoryUMLWireframe:  true,
			model.CategoryUMLNetwork:    true,
		},
		Formats: renderFormats,
	},
	model.FrameworkGraphviz: {
		Categories: map[model.DiagramCategory]bool{
			model.CategoryFlowchart:    true,
			model.CategoryArchitecture: true,
			model.CategoryState:        true,
			model.CategoryERD:          true,
		},
		Formats: renderFormats,
	},
}

// extensionFrameworks maps output-path extensions to the framework whose
// source files use them. Markdown defaults to mermaid (fenced blocks).
var extensionFrameworks = map[string]model.Framework{
	".d2":   model.FrameworkD2,
	".mmd":  model.FrameworkMermaid,
	".puml": model.FrameworkPlantUML,
	".gv":   model.FrameworkGraphviz,
	".md":   model.FrameworkMermaid,
}

// DefaultFormat is the general-purpose format jobs fall back to when none is
// requested.
const DefaultFormat = model.FormatSVG

// PreferredFramework is the category → framework table consulted when the
// output path does not pin a framework. Architecture-family categories go to
// d2, UML-flavored ones to plantuml, everything else to mermaid.
func PreferredFramework(cat model.DiagramCategory) model.Framework {
	switch cat {
	case model.CategoryArchitecture,
		model.CategoryC4Context,
		model.CategoryC4Container,
		model.CategoryC4Component,
		model.CategoryC4Deployment,
		model.CategoryC4Landscape:
		return model.FrameworkD2
	}
	if strings.HasPrefix(string(cat), "uml_") {
		return model.FrameworkPlantUML
	}
	return model.FrameworkMermaid
}

// DetectFromPath returns the framework implied by an output path's
// extension.
func DetectFromPath(path string) (model.Framework, bool) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return "", false
	}
	fw, ok := extensionFrameworks[path[idx:]]
	return fw, ok
}

// Supports reports whether a framework can render a category at all.
func Supports(fw model.Framework, cat model.DiagramCategory) bool {
	caps, ok := frameworkCapabilities[fw]
	return ok && caps.Categories[cat]
}

// SupportedBy returns every framework capable of a category, sorted.
func SupportedBy(cat model.DiagramCategory) []model.Framework {
	var out []model.Framework
	for fw, caps := range frameworkCapabilities {
		if caps.Categories[cat] {
			out = append(out, fw)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Resolve fills in the job's framework and output formats in place, then
// verifies the resolved framework supports the job's category and every
// requested format. Resolution order: explicit framework, output-path
// extension, category preference table. Idempotent and deterministic.
func Resolve(job *model.DiagramJob) model.ErrorList {
	return resolve(job, "")
}

// ResolvePlan resolves every job in a plan, prefixing error fields with the
// job's position.
func ResolvePlan(plan *model.ExecutionPlanDocument) model.ErrorList {
	var errs model.ErrorList
	for i := range plan.DiagramJobs {
		errs.Merge(resolve(&plan.DiagramJobs[i], fmt.Sprintf("diagram_jobs[%d].", i)))
	}
	return errs
}

func resolve(job *model.DiagramJob, prefix string) model.ErrorList {
	var errs model.ErrorList

	if !job.Framework.IsResolved() {
		if fw, ok := DetectFromPath(job.OutputPath); ok {
			job.Framework = fw
		} else {
			job.Framework = PreferredFramework(job.Category)
		}
	}

	caps, ok := frameworkCapabilities[job.Framework]
	if !ok {
		errs.Add(prefix+"framework", fmt.Sprintf("framework %q has no capability entry", job.Framework), model.ErrorTypeCompatibility)
		return errs
	}

	if !caps.Categories[job.Category] {
		capable := SupportedBy(job.Category)
		if len(capable) == 0 {
			errs.Add(prefix+"category", fmt.Sprintf("no framework supports diagram category %q", job.Category), model.ErrorTypeCompatibility)
		} else {
			errs.Add(prefix+"framework", fmt.Sprintf("framework %q does not support diagram category %q (supported by: %s)", job.Framework, job.Category, joinFrameworks(capable)), model.ErrorTypeCompatibility)
		}
	}

	if len(job.OutputFormats) == 0 {
		job.OutputFormats = []model.OutputFormat{DefaultFormat}
	}
	for _, f := range job.OutputFormats {
		if !caps.Formats[f] {
			errs.Add(prefix+"output_formats", fmt.Sprintf("framework %q does not support output format %q", job.Framework, f), model.ErrorTypeCompatibility)
		}
	}

	return errs
}

func joinFrameworks(fws []model.Framework) string {
	parts := make([]string, len(fws))
	for i, fw := range fws {
		parts[i] = string(fw)
	}
	return strings.Join(parts, ", ")
}
