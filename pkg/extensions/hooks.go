// Package extensions provides the hook points deployments use to
// attach side effects to the admission lifecycle without modifying the
// pipeline itself.
package extensions

import (
	"context"
	"fmt"
	"sync"
)

// HookPoint represents a point in the admission lifecycle where hooks
// can be registered
type HookPoint string

const (
	// Admission hooks
	HookBeforeAdmission   HookPoint = "before_admission"
	HookAfterAdmission    HookPoint = "after_admission"
	HookAdmissionRejected HookPoint = "admission_rejected"

	// Registry hooks
	HookAfterRegistrySwap HookPoint = "after_registry_swap"
	HookAfterModelUpdate  HookPoint = "after_model_update"
)

// Hook represents a function that can be executed at a hook point. A
// hook error at HookBeforeAdmission aborts the admission; errors at
// the other points are surfaced but cannot undo what already happened.
type Hook func(ctx context.Context, data any) error

// HookManager manages hooks for extension points
type HookManager struct {
	hooks map[HookPoint][]Hook
	mu    sync.RWMutex
}

// NewHookManager creates a new hook manager
func NewHookManager() *HookManager {
	return &HookManager{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register registers a hook for a specific hook point
func (m *HookManager) Register(point HookPoint, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks[point] = append(m.hooks[point], hook)
}

// Execute executes all hooks for a specific hook point, stopping at
// the first failure
func (m *HookManager) Execute(ctx context.Context, point HookPoint, data any) error {
	m.mu.RLock()
	hooks := m.hooks[point]
	m.mu.RUnlock()

	for i, hook := range hooks {
		if err := hook(ctx, data); err != nil {
			return fmt.Errorf("hook %d at %s failed: %w", i, point, err)
		}
	}

	return nil
}

// Clear removes all hooks for a specific hook point
func (m *HookManager) Clear(point HookPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hooks, point)
}

// ClearAll removes all registered hooks
func (m *HookManager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks = make(map[HookPoint][]Hook)
}

// AdmissionHookData is passed to admission lifecycle hooks. Before
// admission only the candidate fields are populated; after admission
// the node identifier and hash are too.
type AdmissionHookData struct {
	CandidateID   string `json:"candidate_id,omitempty"`
	NodeID        string `json:"node_id,omitempty"`
	NodeType      string `json:"node_type,omitempty"`
	IntegrityHash string `json:"integrity_hash,omitempty"`
	RejectionCode string `json:"rejection_code,omitempty"`
}

// RegistryHookData is passed to registry hook points. A vocabulary
// swap populates the vocabulary fields; a model registration the model
// fields.
type RegistryHookData struct {
	Vocabulary string `json:"vocabulary,omitempty"`
	Revision   uint64 `json:"revision,omitempty"`
	Model      string `json:"model,omitempty"`
	Dimension  int    `json:"dimension,omitempty"`
}
