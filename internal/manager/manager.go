package manager

import (
	"sync"
	"time"

	"devplace/internal/accel"
	"devplace/internal/model"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

type Manager struct {
	mu       sync.RWMutex
	state    State
	registry []types.Model
	probe    accel.Probe
	defaults placement.Options
	loader   model.Loader
	now      func() time.Time

	placed  map[string]model.Placed
	records map[string]types.Placement

	lastErr         string
	placementsTotal uint64
	startTime       time.Time
}

// New builds a Manager for reg using the host probe and default options.
func New(reg []types.Model, probe accel.Probe) *Manager {
	return NewWithConfig(ManagerConfig{Registry: reg, Probe: probe})
}

func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateReady
}

func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// Defaults returns the placement options applied to unset request flags.
func (m *Manager) Defaults() placement.Options { return m.defaults }

// Close releases every placed handle that holds runtime resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for id, h := range m.placed {
		if c, ok := h.(model.Closer); ok {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(m.placed, id)
		delete(m.records, id)
	}
	m.state = StateClosed
	return firstErr
}
