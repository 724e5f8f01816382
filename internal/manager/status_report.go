package manager

import (
	"devplace/internal/accel"
	"devplace/pkg/types"
)

// Status builds a status response for /status. The accelerator is left
// empty when probing fails; the error shows up on /probe instead.
func (m *Manager) Status() types.StatusResponse {
	var kind string
	if caps, err := accel.Detect(m.probe); err == nil {
		kind = string(caps.Kind)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	return types.StatusResponse{
		State:           string(m.state),
		Accelerator:     kind,
		Models:          len(m.registry),
		Placed:          len(m.records),
		PlacementsTotal: m.placementsTotal,
		LastError:       m.lastErr,
		UptimeSeconds:   int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:  now.Unix(),
	}
}
