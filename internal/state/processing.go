package state

import (
	"time"

	"github.com/google/uuid"
)

// Processing phases for one pipeline run.
const (
	PhaseTransforming = "transforming"
	PhaseGenerating   = "generating"
	PhaseDocumenting  = "documenting"
	PhaseComplete     = "complete"
	PhaseError        = "error"
)

// ProcessingState tracks one expansion-and-generation run of a plan.
type ProcessingState struct {
	RunID       string                   `json:"run_id"`
	PlanName    string                   `json:"plan_name"`
	Phase       string                   `json:"phase"`
	StartedAt   string                   `json:"started_at"`
	CompletedAt string                   `json:"completed_at,omitempty"`
	Diagrams    map[string]DiagramStatus `json:"diagrams,omitempty"`
	Errors      []string                 `json:"errors,omitempty"`
}

// DiagramStatus is one diagram job's progress entry.
type DiagramStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

func NewProcessingState(planName string) *ProcessingState {
	return &ProcessingState{
		RunID:     uuid.NewString(),
		PlanName:  planName,
		Phase:     PhaseTransforming,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Diagrams:  map[string]DiagramStatus{},
	}
}

// SetDiagram records a diagram job's status for this run.
func (p *ProcessingState) SetDiagram(id, status, message string) {
	if p.Diagrams == nil {
		p.Diagrams = map[string]DiagramStatus{}
	}
	p.Diagrams[id] = DiagramStatus{
		Status:    status,
		Message:   message,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// AddError records an error and moves the run into the error phase.
func (p *ProcessingState) AddError(msg string) {
	p.Errors = append(p.Errors, msg)
	p.Phase = PhaseError
}

// Complete marks the run finished.
func (p *ProcessingState) Complete() {
	p.Phase = PhaseComplete
	p.CompletedAt = time.Now().UTC().Format(time.RFC3339)
}

func (p *ProcessingState) IsComplete() bool {
	return p.CompletedAt != ""
}

// ProcessingKey returns the state key a plan's processing record lives
// under.
func ProcessingKey(planName string) string {
	return planName + ".processing"
}
