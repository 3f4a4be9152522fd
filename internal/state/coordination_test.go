package state

import (
	"reflect"
	"testing"
)

func TestCoordination_RegisterAndReady(t *testing.T) {
	c := NewCoordination("billing-service")
	c.Register("t2d-d2-generator")
	c.Register("t2d-mermaid-generator")
	c.Register("t2d-mkdocs-generator")
	c.SetDependencies("t2d-mkdocs-generator", []string{"t2d-d2-generator", "t2d-mermaid-generator"})

	ready := c.ReadyWorkers()
	want := []string{"t2d-d2-generator", "t2d-mermaid-generator"}
	if !reflect.DeepEqual(ready, want) {
		t.Errorf("ReadyWorkers = %v, want %v", ready, want)
	}
	if c.CanStart("t2d-mkdocs-generator") {
		t.Error("mkdocs generator should wait for diagram workers")
	}
}

func TestCoordination_DependencyGating(t *testing.T) {
	c := NewCoordination("billing-service")
	c.Register("gen-a")
	c.Register("gen-b")
	c.Register("docs")
	c.SetDependencies("docs", []string{"gen-a", "gen-b"})

	c.SetStatus("gen-a", WorkerComplete)
	if c.CanStart("docs") {
		t.Error("docs should still wait for gen-b")
	}

	c.SetStatus("gen-b", WorkerComplete)
	if !c.CanStart("docs") {
		t.Error("docs should be startable once both generators completed")
	}
	if !reflect.DeepEqual(c.ReadyWorkers(), []string{"docs"}) {
		t.Errorf("ReadyWorkers = %v, want [docs]", c.ReadyWorkers())
	}
}

func TestCoordination_CompletionOrder(t *testing.T) {
	c := NewCoordination("billing-service")
	c.Register("a")
	c.Register("b")

	c.SetStatus("a", WorkerRunning)
	c.SetStatus("b", WorkerComplete)
	c.SetStatus("a", WorkerComplete)

	if !reflect.DeepEqual(c.CompletionOrder, []string{"b", "a"}) {
		t.Errorf("CompletionOrder = %v, want [b a]", c.CompletionOrder)
	}
}

func TestCoordination_AllComplete(t *testing.T) {
	c := NewCoordination("billing-service")
	if !c.AllComplete() {
		t.Error("empty coordination is vacuously complete")
	}

	c.Register("a")
	c.Register("b")
	if c.AllComplete() {
		t.Error("pending workers must not report complete")
	}

	c.SetStatus("a", WorkerComplete)
	c.SetStatus("b", WorkerFailed)
	if c.AllComplete() {
		t.Error("a failed worker must not count as complete")
	}

	c.SetStatus("b", WorkerComplete)
	if !c.AllComplete() {
		t.Error("all workers complete, expected true")
	}
}

func TestCoordination_RoundTripThroughStore(t *testing.T) {
	s := newTestStore(t)

	c := NewCoordination("billing-service")
	c.Register("gen-a")
	c.Register("docs")
	c.SetDependencies("docs", []string{"gen-a"})
	c.SetStatus("gen-a", WorkerComplete)

	if err := s.WriteWithBackup("billing-service.coordination", c); err != nil {
		t.Fatalf("WriteWithBackup: %v", err)
	}

	var loaded Coordination
	found, err := s.Read("billing-service.coordination", &loaded)
	if err != nil || !found {
		t.Fatalf("Read: found=%v err=%v", found, err)
	}
	if !loaded.CanStart("docs") {
		t.Error("loaded coordination lost dependency state")
	}
	if !reflect.DeepEqual(loaded.CompletionOrder, []string{"gen-a"}) {
		t.Errorf("CompletionOrder = %v, want [gen-a]", loaded.CompletionOrder)
	}
}

func TestProcessingState_Lifecycle(t *testing.T) {
	p := NewProcessingState("billing-service")
	if p.RunID == "" {
		t.Fatal("run id must be assigned")
	}
	if p.Phase != PhaseTransforming {
		t.Errorf("phase = %s, want transforming", p.Phase)
	}
	if p.IsComplete() {
		t.Error("fresh run must not be complete")
	}

	p.Phase = PhaseGenerating
	p.SetDiagram("architecture-001", "generated", "")
	p.SetDiagram("sequence-001", "failed", "renderer exited 1")

	if got := p.Diagrams["sequence-001"].Message; got != "renderer exited 1" {
		t.Errorf("message = %q", got)
	}

	p.Complete()
	if !p.IsComplete() || p.Phase != PhaseComplete {
		t.Errorf("after Complete: phase=%s completed_at=%q", p.Phase, p.CompletedAt)
	}
}

func TestProcessingState_AddErrorMovesToErrorPhase(t *testing.T) {
	p := NewProcessingState("billing-service")
	p.AddError("expand failed: no framework supports diagram category")

	if p.Phase != PhaseError {
		t.Errorf("phase = %s, want error", p.Phase)
	}
	if len(p.Errors) != 1 {
		t.Errorf("errors = %v", p.Errors)
	}
}

func TestProcessingKey(t *testing.T) {
	if got := ProcessingKey("billing-service"); got != "billing-service.processing" {
		t.Errorf("ProcessingKey = %q", got)
	}
}
