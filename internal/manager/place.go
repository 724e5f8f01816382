package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"devplace/internal/accel"
	"devplace/internal/model"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

// Probe snapshots the accelerator capabilities.
func (m *Manager) Probe() (types.ProbeResponse, error) {
	caps, err := accel.Detect(m.probe)
	if err != nil {
		return types.ProbeResponse{}, err
	}
	return types.ProbeResponse{
		Accelerator:     string(caps.Kind),
		CUDA:            caps.CUDA,
		CUDAMemoryBytes: caps.CUDAMemoryBytes,
		XLA:             caps.XLA,
		XLADevice:       string(caps.XLADevice),
		MPS:             caps.MPS,
		MPSSupported:    caps.MPSSupported,
		HostMemoryBytes: caps.HostMemoryBytes,
	}, nil
}

// BatchSize estimates the default inference batch size.
func (m *Manager) BatchSize() (types.BatchSizeResponse, error) {
	bs, err := placement.DefaultBatchSize(m.probe)
	if err != nil {
		return types.BatchSizeResponse{}, err
	}
	kind, err := estimatorKind(m.probe)
	if err != nil {
		return types.BatchSizeResponse{}, err
	}
	batchSizeGauge.Set(float64(bs))
	return types.BatchSizeResponse{BatchSize: bs, Accelerator: string(kind)}, nil
}

// estimatorKind names the branch DefaultBatchSize took, without the memory
// queries Detect makes.
func estimatorKind(p accel.Probe) (accel.Kind, error) {
	if p.CUDAAvailable() {
		return accel.KindCUDA, nil
	}
	if p.XLAAvailable() {
		dev, err := p.XLADevice()
		if err != nil {
			return "", err
		}
		if dev != "" {
			return accel.KindXLA, nil
		}
	}
	mps, err := accel.UnifiedMemoryAvailable(p)
	if err != nil {
		return "", err
	}
	if mps {
		return accel.KindMPS, nil
	}
	return accel.KindCPU, nil
}

// Place opens (or reuses) the handle of req.Model and moves it with the
// resolved options. Placing an already placed model runs placement again on
// the same handle.
//
// Opening a model runs outside the manager lock and gives up when ctx is
// done; a handle that finishes loading after that is closed. MoveToDevice
// itself is not interruptible.
func (m *Manager) Place(ctx context.Context, req types.PlaceRequest) (types.Placement, error) {
	if err := ctx.Err(); err != nil {
		return types.Placement{}, err
	}
	id := strings.TrimSpace(req.Model)
	if id == "" {
		return types.Placement{}, invalidRequestError{msg: "model is required"}
	}
	mdl, ok := m.getModelByID(id)
	if !ok {
		return types.Placement{}, ErrModelNotFound(id)
	}
	opts := m.resolveOptions(req)

	m.mu.RLock()
	h, ok := m.placed[id]
	m.mu.RUnlock()

	var opened model.Placed
	if !ok {
		var err error
		opened, err = m.open(ctx, mdl)
		if err != nil {
			return types.Placement{}, m.fail(id, err)
		}
		h = opened
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if opened != nil {
		// a concurrent Place may have stored a handle while we were loading
		if existing, ok := m.placed[id]; ok {
			closeHandle(opened)
			opened = nil
			h = existing
		}
	}
	if err := ctx.Err(); err != nil {
		closeHandle(opened)
		return types.Placement{}, m.failLocked(id, fmt.Errorf("place %s: %w", id, err))
	}
	out, err := placement.MoveToDevice(m.probe, h, opts)
	if err != nil {
		closeHandle(opened)
		return types.Placement{}, m.failLocked(id, fmt.Errorf("place %s: %w", id, err))
	}
	placed, ok := out.(model.Placed)
	if !ok {
		closeHandle(opened)
		return types.Placement{}, m.failLocked(id, fmt.Errorf("place %s: handle %T cannot report its placement", id, out))
	}

	rec := types.Placement{
		ModelID:    id,
		Device:     string(placed.Device()),
		DType:      string(placed.DType()),
		BF16:       opts.BF16,
		CUDA:       opts.CUDA,
		XLA:        opts.XLA,
		PlacedUnix: m.now().Unix(),
	}
	m.placed[id] = placed
	m.records[id] = rec
	m.placementsTotal++
	m.lastErr = ""
	placementsCounter.WithLabelValues(accelLabel(placed.Device()), rec.DType).Inc()
	log.Info().Str("model", id).Str("device", rec.Device).Str("dtype", rec.DType).Msg("model placed")
	return rec, nil
}

// open runs the loader and waits for it or for ctx, whichever comes first.
func (m *Manager) open(ctx context.Context, mdl types.Model) (model.Placed, error) {
	type result struct {
		h   model.Placed
		err error
	}
	done := make(chan result, 1)
	go func() {
		h, err := m.loader(mdl)
		done <- result{h, err}
	}()
	select {
	case r := <-done:
		if r.err != nil {
			return nil, mapLoadError(r.err)
		}
		return r.h, nil
	case <-ctx.Done():
		go func() {
			if r := <-done; r.err == nil {
				closeHandle(r.h)
			}
		}()
		return nil, fmt.Errorf("open %s: %w", mdl.ID, ctx.Err())
	}
}

// closeHandle releases h when it holds runtime resources. nil is a no-op.
func closeHandle(h model.Placed) {
	if h == nil {
		return
	}
	if c, ok := h.(model.Closer); ok {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Str("model", h.ID()).Msg("release model")
		}
	}
}

// fail records err as the last error.
func (m *Manager) fail(id string, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failLocked(id, err)
}

// failLocked is fail for callers holding m.mu.
func (m *Manager) failLocked(id string, err error) error {
	m.lastErr = err.Error()
	placementErrors.Inc()
	log.Error().Err(err).Str("model", id).Msg("placement failed")
	return err
}

func mapLoadError(err error) error {
	if errors.Is(err, model.ErrLlamaUnavailable) {
		return ErrDependencyUnavailable(err.Error())
	}
	return fmt.Errorf("open model: %w", err)
}

// Unplace forgets the placement of id and releases its handle.
func (m *Manager) Unplace(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.placed[id]
	if !ok {
		return ErrModelNotFound(id)
	}
	delete(m.placed, id)
	delete(m.records, id)
	if c, ok := h.(model.Closer); ok {
		return c.Close()
	}
	return nil
}

// Placements returns the current placements sorted by model id.
func (m *Manager) Placements() []types.Placement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Placement, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelID < out[j].ModelID })
	return out
}
