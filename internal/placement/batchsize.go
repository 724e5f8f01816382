package placement

import (
	"fmt"

	"devplace/internal/accel"
)

const (
	// memoryFraction is the share of accelerator memory a batch may use.
	memoryFraction = 0.3
	// tpuMemoryPerCoreGB is the per-core memory assumed for an XLA device.
	tpuMemoryPerCoreGB = 2.8

	unifiedMemoryBatchSize = 4
	cpuBatchSize           = 1
)

const (
	msgVRAMTooSmall  = "GPU VRAM is too small. Computing on CPU."
	msgNoAccelerator = "No GPU or TPU found. Conversion on CPU is very slow."
)

// DefaultBatchSize returns an inference batch size for the accelerator p
// reports, checking cuda, xla and mps in that order.
//
// On cuda the size is 30% of the total memory of GPU 0 counted in
// "thousand MiB" units. A GPU small enough to yield 0 logs a warning and 0 is
// returned anyway. On xla the size is derived from a fixed 2.8 GB per core,
// which truncates to 0. Without any accelerator the size is 1 and a warning
// is logged.
func DefaultBatchSize(p accel.Probe) (int, error) {
	if p.CUDAAvailable() {
		total, err := p.CUDATotalMemory(0)
		if err != nil {
			return 0, fmt.Errorf("query cuda memory: %w", err)
		}
		bs := int(float64(total) / 1024 / 1024 / 1000 * memoryFraction)
		if bs == 0 {
			logger().Warn().Uint64("total_bytes", total).Msg(msgVRAMTooSmall)
		}
		return bs, nil
	}
	if p.XLAAvailable() {
		dev, err := p.XLADevice()
		if err != nil {
			return 0, fmt.Errorf("query xla device: %w", err)
		}
		if dev != "" {
			perCore := tpuMemoryPerCoreGB
			return int(perCore * 1000 / 1024 * memoryFraction), nil
		}
	}
	mps, err := accel.UnifiedMemoryAvailable(p)
	if err != nil {
		return 0, fmt.Errorf("query mps: %w", err)
	}
	if mps {
		return unifiedMemoryBatchSize, nil
	}
	logger().Warn().Msg(msgNoAccelerator)
	return cpuBatchSize, nil
}
