package manager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"devplace/internal/accel"
	"devplace/internal/model"
	"devplace/internal/placement"
	"devplace/pkg/types"
)

func boolPtr(b bool) *bool { return &b }

func newTestManager(probe accel.Probe, reg ...types.Model) *Manager {
	if len(reg) == 0 {
		reg = []types.Model{{ID: "m1"}, {ID: "m2"}}
	}
	return NewWithConfig(ManagerConfig{Registry: reg, Probe: probe})
}

// closingHandle counts Close calls.
type closingHandle struct {
	*model.Handle
	mu     sync.Mutex
	closed int
}

func (c *closingHandle) ToDevice(d accel.Device) (placement.Model, error) {
	if _, err := c.Handle.ToDevice(d); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *closingHandle) ToDType(dt placement.DType) (placement.Model, error) {
	if _, err := c.Handle.ToDType(dt); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *closingHandle) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *closingHandle) closedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestNewWithConfigDefaults(t *testing.T) {
	m := NewWithConfig(ManagerConfig{})
	if m.Defaults() != placement.DefaultOptions() {
		t.Fatalf("expected default options, got %+v", m.Defaults())
	}
	if m.probe == nil || m.loader == nil || m.now == nil {
		t.Fatalf("expected probe, loader and clock defaults")
	}
	if !m.Ready() {
		t.Fatalf("expected ready after construction")
	}
}

func TestListModelsReturnsCopy(t *testing.T) {
	m := newTestManager(accel.Static{})
	out := m.ListModels()
	if len(out) != 2 {
		t.Fatalf("expected 2 got %d", len(out))
	}
	out[0].ID = "z"
	if m.ListModels()[0].ID != "m1" {
		t.Fatalf("registry mutated via returned slice")
	}
}

func TestPlace_CUDAWithDefaults(t *testing.T) {
	fixed := time.Unix(1700000000, 0)
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "m1"}},
		Probe:    accel.Static{CUDA: true, CUDAMemoryBytes: 8 << 30, MPSErr: accel.ErrCapabilityUnsupported},
		Now:      func() time.Time { return fixed },
	})
	rec, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1"})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	// xla is enabled by default, so the cast is skipped
	if rec.Device != "cuda" || rec.DType != "float32" || rec.PlacedUnix != fixed.Unix() {
		t.Fatalf("unexpected placement: %+v", rec)
	}
	if !rec.BF16 || !rec.CUDA || !rec.XLA {
		t.Fatalf("expected default flags recorded: %+v", rec)
	}
}

func TestPlace_RequestFlagsOverrideDefaults(t *testing.T) {
	m := newTestManager(accel.Static{CUDA: true})
	rec, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1", XLA: boolPtr(false)})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if rec.Device != "cuda" || rec.DType != "bfloat16" {
		t.Fatalf("unexpected placement: %+v", rec)
	}
}

func TestPlace_MPSIgnoresFlags(t *testing.T) {
	m := newTestManager(accel.Static{MPS: true, CUDA: true})
	rec, err := m.Place(context.Background(), types.PlaceRequest{Model: "m2", BF16: boolPtr(true), XLA: boolPtr(false)})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if rec.Device != "mps" || rec.DType != "float32" {
		t.Fatalf("unexpected placement: %+v", rec)
	}
}

func TestPlace_ReusesHandle(t *testing.T) {
	opened := 0
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "m1"}},
		Probe:    accel.Static{},
		Loader: func(mdl types.Model) (model.Placed, error) {
			opened++
			return model.NewHandle(mdl), nil
		},
	})
	for i := 0; i < 3; i++ {
		if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1"}); err != nil {
			t.Fatalf("place: %v", err)
		}
	}
	if opened != 1 {
		t.Fatalf("expected one open, got %d", opened)
	}
	if st := m.Status(); st.PlacementsTotal != 3 || st.Placed != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestPlace_Errors(t *testing.T) {
	m := newTestManager(accel.Static{})
	if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "nope"}); !IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
	if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "  "}); !IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Place(ctx, types.PlaceRequest{Model: "m1"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestPlace_LlamaUnavailableMapsToDependencyError(t *testing.T) {
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "m1"}},
		Probe:    accel.Static{},
		Loader: func(types.Model) (model.Placed, error) {
			return nil, model.ErrLlamaUnavailable
		},
	})
	_, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1"})
	if !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if m.Status().LastError == "" {
		t.Fatalf("expected last error to be recorded")
	}
}

func TestPlace_ProbeErrorPropagates(t *testing.T) {
	boom := errors.New("mps query crashed")
	m := newTestManager(accel.Static{MPSErr: boom})
	_, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected probe error, got %v", err)
	}
	if len(m.Placements()) != 0 {
		t.Fatalf("failed placement must not be recorded")
	}
}

func TestUnplaceAndClose(t *testing.T) {
	var handles []*closingHandle
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "m1"}, {ID: "m2"}},
		Probe:    accel.Static{CUDA: true},
		Loader: func(mdl types.Model) (model.Placed, error) {
			h := &closingHandle{Handle: model.NewHandle(mdl)}
			handles = append(handles, h)
			return h, nil
		},
	})
	for _, id := range []string{"m2", "m1"} {
		if _, err := m.Place(context.Background(), types.PlaceRequest{Model: id}); err != nil {
			t.Fatalf("place %s: %v", id, err)
		}
	}
	ps := m.Placements()
	if len(ps) != 2 || ps[0].ModelID != "m1" {
		t.Fatalf("unexpected placements: %+v", ps)
	}
	if err := m.Unplace("m2"); err != nil {
		t.Fatalf("unplace: %v", err)
	}
	if handles[0].closed != 1 {
		t.Fatalf("expected m2 handle closed")
	}
	if err := m.Unplace("m2"); !IsModelNotFound(err) {
		t.Fatalf("expected not found on second unplace, got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if handles[1].closed != 1 || len(m.Placements()) != 0 || m.Ready() {
		t.Fatalf("close did not release everything")
	}
}

func TestProbeAndBatchSize(t *testing.T) {
	m := newTestManager(accel.Static{CUDA: true, CUDAMemoryBytes: 24576 * 1024 * 1024, HostMemoryBytes: 64 << 30})
	pr, err := m.Probe()
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if pr.Accelerator != "cuda" || pr.CUDAMemoryBytes != 24576*1024*1024 || pr.HostMemoryBytes != 64<<30 {
		t.Fatalf("unexpected probe: %+v", pr)
	}
	bs, err := m.BatchSize()
	if err != nil {
		t.Fatalf("batch size: %v", err)
	}
	if bs.BatchSize != 7 || bs.Accelerator != "cuda" {
		t.Fatalf("unexpected batch size: %+v", bs)
	}
	if m.Status().Accelerator != "cuda" {
		t.Fatalf("status accelerator not reported")
	}
}

func TestBatchSize_PropagatesProbeError(t *testing.T) {
	boom := errors.New("nvidia-smi timed out")
	m := newTestManager(accel.Static{CUDA: true, CUDAErr: boom})
	if _, err := m.BatchSize(); !errors.Is(err, boom) {
		t.Fatalf("expected probe error, got %v", err)
	}
}

func TestPlace_ClosesFreshHandleWhenPlacementFails(t *testing.T) {
	var h *closingHandle
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "m1"}},
		Probe:    accel.Static{XLA: true, XLADev: "tpu-bogus"},
		Loader: func(mdl types.Model) (model.Placed, error) {
			h = &closingHandle{Handle: model.NewHandle(mdl)}
			return h, nil
		},
	})
	if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1"}); err == nil {
		t.Fatalf("expected placement to fail on an unknown device")
	}
	if h == nil || h.closed != 1 {
		t.Fatalf("fresh handle not released after failed placement")
	}
	if len(m.Placements()) != 0 {
		t.Fatalf("failed placement must not be recorded")
	}
}

func TestPlace_KeepsPlacedHandleWhenReplacementFails(t *testing.T) {
	var h *closingHandle
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "m1"}},
		Probe:    accel.Static{XLA: true, XLADev: "tpu-bogus"},
		Loader: func(mdl types.Model) (model.Placed, error) {
			h = &closingHandle{Handle: model.NewHandle(mdl)}
			return h, nil
		},
	})
	// xla disabled: nothing to relocate, so the handle is stored
	if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1", XLA: boolPtr(false)}); err != nil {
		t.Fatalf("place: %v", err)
	}
	if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "m1"}); err == nil {
		t.Fatalf("expected second placement to fail")
	}
	if h.closed != 0 || len(m.Placements()) != 1 {
		t.Fatalf("stored handle must survive a failed re-placement")
	}
}

func TestPlace_LoadHonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	loaded := make(chan *closingHandle, 1)
	m := NewWithConfig(ManagerConfig{
		Registry: []types.Model{{ID: "slow"}, {ID: "fast"}},
		Probe:    accel.Static{CUDA: true},
		Loader: func(mdl types.Model) (model.Placed, error) {
			if mdl.ID == "slow" {
				<-release
			}
			h := &closingHandle{Handle: model.NewHandle(mdl)}
			if mdl.ID == "slow" {
				loaded <- h
			}
			return h, nil
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := m.Place(ctx, types.PlaceRequest{Model: "slow"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("Place did not return at the deadline")
	}

	// the slow load does not hold the manager lock
	if _, err := m.Place(context.Background(), types.PlaceRequest{Model: "fast"}); err != nil {
		t.Fatalf("place fast: %v", err)
	}

	close(release)
	h := <-loaded
	deadline := time.Now().Add(time.Second)
	for h.closedCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("late handle was not released")
		}
		time.Sleep(5 * time.Millisecond)
	}
	ps := m.Placements()
	if len(ps) != 1 || ps[0].ModelID != "fast" {
		t.Fatalf("unexpected placements: %+v", ps)
	}
}

// countingProbe counts memory queries and has no host memory.
type countingProbe struct {
	accel.Static
	memCalls int
}

func (c *countingProbe) CUDATotalMemory(ordinal int) (uint64, error) {
	c.memCalls++
	return c.Static.CUDATotalMemory(ordinal)
}

func (c *countingProbe) HostMemory() (uint64, error) {
	return 0, errors.New("host memory unavailable")
}

func TestBatchSize_QueriesGPUMemoryOnce(t *testing.T) {
	p := &countingProbe{Static: accel.Static{CUDA: true, CUDAMemoryBytes: 24576 * 1024 * 1024}}
	m := newTestManager(p)
	bs, err := m.BatchSize()
	if err != nil {
		t.Fatalf("batch size: %v", err)
	}
	if bs.BatchSize != 7 || bs.Accelerator != "cuda" {
		t.Fatalf("unexpected batch size: %+v", bs)
	}
	if p.memCalls != 1 {
		t.Fatalf("expected one memory query, got %d", p.memCalls)
	}
}

func TestBatchSize_AcceleratorLabel(t *testing.T) {
	cases := []struct {
		probe accel.Static
		want  string
		size  int
	}{
		{accel.ForKind(accel.KindXLA, 0), "xla", 0},
		{accel.ForKind(accel.KindMPS, 0), "mps", 4},
		{accel.Static{MPSErr: accel.ErrCapabilityUnsupported}, "cpu", 1},
	}
	for _, tc := range cases {
		bs, err := newTestManager(tc.probe).BatchSize()
		if err != nil {
			t.Fatalf("batch size: %v", err)
		}
		if bs.Accelerator != tc.want || bs.BatchSize != tc.size {
			t.Fatalf("got %+v, want %s/%d", bs, tc.want, tc.size)
		}
	}
}
