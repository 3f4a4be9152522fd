package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t2dkit/t2d/internal/model"
)

func intentFixture() *model.IntentDocument {
	intent := &model.IntentDocument{
		Name: "billing-service",
		Requirements: model.Requirements{
			Content: "# Billing Service\n\nProcesses invoices and payment retries for subscription customers.",
		},
		DiagramRequests: []model.DiagramRequest{
			{Category: model.CategoryArchitecture, Description: "service topology"},
		},
	}
	if errs := intent.Validate(); len(errs) != 0 {
		panic("fixture must be valid: " + errs.Error())
	}
	return intent
}

func TestExpand_SingleArchitectureRequest(t *testing.T) {
	plan, err := Expand(intentFixture(), "recipes/billing-service.yaml")
	require.NoError(t, err)

	assert.Equal(t, "billing-service", plan.Name)
	assert.Equal(t, "1.0.0", plan.Version)
	assert.Equal(t, "recipes/billing-service.yaml", plan.SourceDocumentPath)
	assert.Equal(t, "docs/assets", plan.OutputConfig.AssetsDir)

	require.Len(t, plan.DiagramJobs, 1)
	job := plan.DiagramJobs[0]
	assert.Equal(t, "architecture-001", job.ID)
	assert.Equal(t, model.FrameworkD2, job.Framework)
	assert.Equal(t, "t2d-d2-generator", job.WorkerName)
	assert.Equal(t, "docs/assets/src/architecture-001.d2", job.OutputPath)
	assert.Equal(t, []model.OutputFormat{model.FormatSVG}, job.OutputFormats)
	assert.Equal(t, "Architecture Diagram", job.Title)
	assert.Contains(t, job.Instructions, "service topology")

	require.Len(t, plan.DiagramReferences, 1)
	ref := plan.DiagramReferences[0]
	assert.Equal(t, job.ID, ref.ID)
	assert.Equal(t, model.StatusPending, ref.Status)
	assert.Equal(t, "docs/assets/architecture-001.svg", ref.ExpectedPath)

	require.Len(t, plan.ContentFiles, 1)
	cf := plan.ContentFiles[0]
	assert.Equal(t, "documentation", cf.ID)
	assert.Equal(t, "docs/index.md", cf.Path)
	assert.Equal(t, []string{"architecture-001"}, cf.DiagramRefs)
}

func TestExpand_PresentationAddsSecondContentFile(t *testing.T) {
	intent := intentFixture()
	intent.PresentationInstructions = &model.PresentationInstructions{
		Audience:  "engineering leadership",
		MaxSlides: 12,
	}
	require.Empty(t, intent.Validate())

	plan, err := Expand(intent, "recipes/billing-service.yaml")
	require.NoError(t, err)

	require.Len(t, plan.ContentFiles, 2)
	assert.Equal(t, "presentation", plan.ContentFiles[1].ID)
	assert.Equal(t, "docs/slides.md", plan.ContentFiles[1].Path)
	assert.Equal(t, model.ContentPresentation, plan.ContentFiles[1].Type)
	assert.Equal(t, "t2d-slides-generator", plan.ContentFiles[1].WorkerName)
}

func TestExpand_SequentialIDsPerCategory(t *testing.T) {
	intent := intentFixture()
	intent.DiagramRequests = []model.DiagramRequest{
		{Category: model.CategoryFlowchart, Description: "signup flow"},
		{Category: model.CategoryFlowchart, Description: "refund flow"},
		{Category: model.CategorySequence, Description: "payment retry"},
	}
	require.Empty(t, intent.Validate())

	plan, err := Expand(intent, "recipes/billing-service.yaml")
	require.NoError(t, err)
	require.Len(t, plan.DiagramJobs, 3)

	assert.Equal(t, "flowchart-001", plan.DiagramJobs[0].ID)
	assert.Equal(t, "flowchart-002", plan.DiagramJobs[1].ID)
	assert.Equal(t, "sequence-001", plan.DiagramJobs[2].ID)
}

func TestExpand_RequestPreferenceHonored(t *testing.T) {
	intent := intentFixture()
	intent.DiagramRequests = []model.DiagramRequest{
		{Category: model.CategoryFlowchart, Description: "signup flow", PreferredFramework: model.FrameworkGraphviz},
	}
	require.Empty(t, intent.Validate())

	plan, err := Expand(intent, "recipes/billing-service.yaml")
	require.NoError(t, err)

	assert.Equal(t, model.FrameworkGraphviz, plan.DiagramJobs[0].Framework)
	assert.True(t, strings.HasSuffix(plan.DiagramJobs[0].OutputPath, ".gv"))
	assert.Empty(t, plan.GenerationNotes)
}

func TestExpand_DocumentDefaultPreference(t *testing.T) {
	intent := intentFixture()
	intent.DiagramRequests = []model.DiagramRequest{
		{Category: model.CategoryFlowchart, Description: "signup flow"},
	}
	intent.Preferences = &model.Preferences{DefaultFramework: model.FrameworkD2}
	require.Empty(t, intent.Validate())

	plan, err := Expand(intent, "recipes/billing-service.yaml")
	require.NoError(t, err)
	assert.Equal(t, model.FrameworkD2, plan.DiagramJobs[0].Framework)
}

func TestExpand_UnsupportedPreferenceFallsBackWithNote(t *testing.T) {
	intent := intentFixture()
	intent.DiagramRequests = []model.DiagramRequest{
		{Category: model.CategoryGantt, Description: "release timeline", PreferredFramework: model.FrameworkD2},
	}
	require.Empty(t, intent.Validate())

	plan, err := Expand(intent, "recipes/billing-service.yaml")
	require.NoError(t, err)

	assert.Equal(t, model.FrameworkMermaid, plan.DiagramJobs[0].Framework)
	require.Len(t, plan.GenerationNotes, 1)
	assert.Contains(t, plan.GenerationNotes[0], "d2")
	assert.Contains(t, plan.GenerationNotes[0], "gantt")
}

func TestExpand_ResultPassesAllValidators(t *testing.T) {
	intent := intentFixture()
	intent.DiagramRequests = append(intent.DiagramRequests,
		model.DiagramRequest{Category: model.CategorySequence, Description: "payment retry"},
		model.DiagramRequest{Category: model.CategoryERD, Description: "billing schema"},
	)
	require.Empty(t, intent.Validate())

	plan, err := Expand(intent, "recipes/billing-service.yaml")
	require.NoError(t, err)

	// Serializing and reparsing must reproduce a valid plan.
	data, err := model.SerializePlan(plan)
	require.NoError(t, err)
	reparsed, errs := model.ParsePlan(data)
	require.Empty(t, errs)
	assert.Equal(t, plan.Name, reparsed.Name)
	assert.Len(t, reparsed.DiagramJobs, 3)
}
