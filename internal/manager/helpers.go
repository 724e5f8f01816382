package manager

import (
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// Helper: find model in registry by id.
func (m *Manager) getModelByID(id string) (types.Model, bool) {
	for _, mdl := range m.registry {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}

// resolveOptions overlays the request flags on the manager defaults.
func (m *Manager) resolveOptions(req types.PlaceRequest) placement.Options {
	opts := m.defaults
	if req.BF16 != nil {
		opts.BF16 = *req.BF16
	}
	if req.CUDA != nil {
		opts.CUDA = *req.CUDA
	}
	if req.XLA != nil {
		opts.XLA = *req.XLA
	}
	return opts
}
