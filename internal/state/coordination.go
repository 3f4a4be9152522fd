package state

import "sort"

// Worker coordination statuses. The store does not enforce transitions;
// whichever process owns a worker's entry writes its status.
const (
	WorkerPending  = "pending"
	WorkerRunning  = "running"
	WorkerComplete = "complete"
	WorkerFailed   = "failed"
)

// Coordination is the higher-level record layered over a single state key:
// per worker identifier, a status string and the workers it must wait for.
type Coordination struct {
	PlanName        string              `json:"plan_name"`
	Workers         map[string]string   `json:"workers"`
	Dependencies    map[string][]string `json:"dependencies,omitempty"`
	CompletionOrder []string            `json:"completion_order,omitempty"`
}

func NewCoordination(planName string) *Coordination {
	return &Coordination{
		PlanName:     planName,
		Workers:      map[string]string{},
		Dependencies: map[string][]string{},
	}
}

// Register adds a worker in the pending state. Re-registering resets it.
func (c *Coordination) Register(workerID string) {
	if c.Workers == nil {
		c.Workers = map[string]string{}
	}
	c.Workers[workerID] = WorkerPending
}

// SetStatus records a worker's status, tracking completion order.
func (c *Coordination) SetStatus(workerID, status string) {
	if c.Workers == nil {
		c.Workers = map[string]string{}
	}
	c.Workers[workerID] = status
	if status == WorkerComplete {
		c.CompletionOrder = append(c.CompletionOrder, workerID)
	}
}

// SetDependencies records which workers must complete before workerID may
// start.
func (c *Coordination) SetDependencies(workerID string, deps []string) {
	if c.Dependencies == nil {
		c.Dependencies = map[string][]string{}
	}
	c.Dependencies[workerID] = deps
}

// CanStart reports whether every prerequisite of workerID is complete. A
// worker with no dependency entry can always start.
func (c *Coordination) CanStart(workerID string) bool {
	for _, dep := range c.Dependencies[workerID] {
		if c.Workers[dep] != WorkerComplete {
			return false
		}
	}
	return true
}

// ReadyWorkers returns, sorted, every worker that is pending and whose
// prerequisites are all complete.
func (c *Coordination) ReadyWorkers() []string {
	var ready []string
	for id, status := range c.Workers {
		if status == WorkerPending && c.CanStart(id) {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)
	return ready
}

// AllComplete reports whether every registered worker has completed.
// Vacuously true for an empty registry.
func (c *Coordination) AllComplete() bool {
	for _, status := range c.Workers {
		if status != WorkerComplete {
			return false
		}
	}
	return true
}
