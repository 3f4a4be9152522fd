package model

import "fmt"

// DiagramCategory is the closed set of diagram kinds a request may name.
type DiagramCategory string

const (
	CategoryFlowchart    DiagramCategory = "flowchart"
	CategorySequence     DiagramCategory = "sequence"
	CategoryClass        DiagramCategory = "class"
	CategoryState        DiagramCategory = "state"
	CategoryERD          DiagramCategory = "erd"
	CategoryJourney      DiagramCategory = "journey"
	CategoryGantt        DiagramCategory = "gantt"
	CategoryPie          DiagramCategory = "pie"
	CategoryQuadrant     DiagramCategory = "quadrant"
	CategoryRequirement  DiagramCategory = "requirement"
	CategoryGitgraph     DiagramCategory = "gitgraph"
	CategoryMindmap      DiagramCategory = "mindmap"
	CategoryTimeline     DiagramCategory = "timeline"
	CategorySankey       DiagramCategory = "sankey"
	CategoryXYChart      DiagramCategory = "xy_chart"
	CategoryBlock        DiagramCategory = "block"
	CategoryPacket       DiagramCategory = "packet"
	CategoryArchitecture DiagramCategory = "architecture"
	CategoryKanban       DiagramCategory = "kanban"

	CategoryC4Context    DiagramCategory = "c4_context"
	CategoryC4Container  DiagramCategory = "c4_container"
	CategoryC4Component  DiagramCategory = "c4_component"
	CategoryC4Deployment DiagramCategory = "c4_deployment"
	CategoryC4Landscape  DiagramCategory = "c4_landscape"

	CategoryUMLUsecase    DiagramCategory = "uml_usecase"
	CategoryUMLActivity   DiagramCategory = "uml_activity"
	CategoryUMLComponent  DiagramCategory = "uml_component"
	CategoryUMLDeployment DiagramCategory = "uml_deployment"
	CategoryUMLObject     DiagramCategory = "uml_object"
	CategoryUMLPackage    DiagramCategory = "uml_package"
	CategoryUMLTiming     DiagramCategory = "uml_timing"
	CategoryUMLNetwork    DiagramCategory = "uml_network"
	CategoryUMLWireframe  DiagramCategory = "uml_wireframe"
)

var validCategories = map[string]bool{
	string(CategoryFlowchart):     true,
	string(CategorySequence):      true,
	string(CategoryClass):         true,
	string(CategoryState):         true,
	string(CategoryERD):           true,
	string(CategoryJourney):       true,
	string(CategoryGantt):         true,
	string(CategoryPie):           true,
	string(CategoryQuadrant):      true,
	string(CategoryRequirement):   true,
	string(CategoryGitgraph):      true,
	string(CategoryMindmap):       true,
	string(CategoryTimeline):      true,
	string(CategorySankey):        true,
	string(CategoryXYChart):       true,
	string(CategoryBlock):         true,
	string(CategoryPacket):        true,
	string(CategoryArchitecture):  true,
	string(CategoryKanban):        true,
	string(CategoryC4Context):     true,
	string(CategoryC4Container):   true,
	string(CategoryC4Component):   true,
	string(CategoryC4Deployment):  true,
	string(CategoryC4Landscape):   true,
	string(CategoryUMLUsecase):    true,
	string(CategoryUMLActivity):   true,
	string(CategoryUMLComponent):  true,
	string(CategoryUMLDeployment): true,
	string(CategoryUMLObject):     true,
	string(CategoryUMLPackage):    true,
	string(CategoryUMLTiming):     true,
	string(CategoryUMLNetwork):    true,
	string(CategoryUMLWireframe):  true,
}

func IsValidCategory(c DiagramCategory) bool {
	return validCategories[string(c)]
}

// Framework is a diagram rendering engine.
type Framework string

const (
	FrameworkD2       Framework = "d2"
	FrameworkMermaid  Framework = "mermaid"
	FrameworkPlantUML Framework = "plantuml"
	FrameworkGraphviz Framework = "graphviz"
	// FrameworkAuto asks the compatibility matrix to choose.
	FrameworkAuto Framework = "auto"
)

var validFrameworks = map[string]bool{
	string(FrameworkD2):       true,
	string(FrameworkMermaid):  true,
	string(FrameworkPlantUML): true,
	string(FrameworkGraphviz): true,
	string(FrameworkAuto):     true,
}

func IsValidFramework(f Framework) bool {
	return validFrameworks[string(f)]
}

// IsResolved reports whether the framework is a concrete engine rather than
// empty or "auto".
func (f Framework) IsResolved() bool {
	return f != "" && f != FrameworkAuto && validFrameworks[string(f)]
}

// OutputFormat is a rendered diagram encoding.
type OutputFormat string

const (
	FormatSVG    OutputFormat = "svg"
	FormatPNG    OutputFormat = "png"
	FormatPDF    OutputFormat = "pdf"
	FormatInline OutputFormat = "inline"
)

var validFormats = map[string]bool{
	string(FormatSVG):    true,
	string(FormatPNG):    true,
	string(FormatPDF):    true,
	string(FormatInline): true,
}

func IsValidFormat(f OutputFormat) bool {
	return validFormats[string(f)]
}

// ContentType classifies a content file.
type ContentType string

const (
	ContentDocumentation ContentType = "documentation"
	ContentPresentation  ContentType = "presentation"
)

var validContentTypes = map[string]bool{
	string(ContentDocumentation): true,
	string(ContentPresentation):  true,
}

// GenerationStatus tracks a diagram reference through its lifecycle:
// pending → generated | failed. Both end states are terminal.
type GenerationStatus string

const (
	StatusPending   GenerationStatus = "pending"
	StatusGenerated GenerationStatus = "generated"
	StatusFailed    GenerationStatus = "failed"
)

var validStatuses = map[string]bool{
	string(StatusPending):   true,
	string(StatusGenerated): true,
	string(StatusFailed):    true,
}

var terminalStatuses = map[GenerationStatus]bool{
	StatusGenerated: true,
	StatusFailed:    true,
}

var validStatusTransitions = map[GenerationStatus]map[GenerationStatus]bool{
	StatusPending: {
		StatusGenerated: true,
		StatusFailed:    true,
	},
}

func IsTerminalStatus(s GenerationStatus) bool {
	return terminalStatuses[s]
}

func ValidateStatusTransition(from, to GenerationStatus) error {
	if IsTerminalStatus(from) {
		return fmt.Errorf("cannot transition from terminal status %q", from)
	}
	allowed, ok := validStatusTransitions[from]
	if !ok {
		return fmt.Errorf("unknown status %q", from)
	}
	if !allowed[to] {
		return fmt.Errorf("invalid status transition: %q → %q", from, to)
	}
	return nil
}
