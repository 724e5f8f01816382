package manager

import (
	"time"

	"devplace/internal/accel"
	"devplace/internal/model"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Registry []types.Model
	// Probe answers capability questions; defaults to the host probe.
	Probe accel.Probe
	// Defaults are the placement options used for unset request flags;
	// nil means placement.DefaultOptions().
	Defaults *placement.Options
	// Loader opens registry models; defaults to model.DescriptorLoader.
	Loader model.Loader
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:    StateReady,
		registry: append([]types.Model(nil), cfg.Registry...),
		probe:    cfg.Probe,
		loader:   cfg.Loader,
		now:      cfg.Now,
		placed:   make(map[string]model.Placed),
		records:  make(map[string]types.Placement),
	}
	if m.probe == nil {
		m.probe = accel.NewHostProbe()
	}
	if cfg.Defaults != nil {
		m.defaults = *cfg.Defaults
	} else {
		m.defaults = placement.DefaultOptions()
	}
	if m.loader == nil {
		m.loader = model.DescriptorLoader
	}
	if m.now == nil {
		m.now = time.Now
	}
	m.startTime = m.now()
	return m
}
