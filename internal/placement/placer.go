package placement

import (
	"fmt"

	"devplace/internal/accel"
)

// MoveToDevice places m according to opts and what p reports.
//
// A usable unified-memory GPU wins outright: m goes to mps and nothing else
// happens, whatever opts say. Otherwise m is cast to bfloat16 when BF16 is set
// and XLA is not, then moved to the XLA device if XLA is set and the runtime
// is present, else to cuda if CUDA is set and a GPU is present. When no step
// applies m is returned untouched.
func MoveToDevice(p accel.Probe, m Model, opts Options) (Model, error) {
	mps, err := accel.UnifiedMemoryAvailable(p)
	if err != nil {
		return nil, fmt.Errorf("query mps: %w", err)
	}
	if mps {
		logger().Debug().Str("device", string(accel.DeviceMPS)).Msg("placing model")
		return m.ToDevice(accel.DeviceMPS)
	}

	if opts.BF16 && !opts.XLA {
		m, err = m.ToDType(BFloat16)
		if err != nil {
			return nil, fmt.Errorf("cast to %s: %w", BFloat16, err)
		}
	}

	switch {
	case opts.XLA && p.XLAAvailable():
		dev, err := p.XLADevice()
		if err != nil {
			return nil, fmt.Errorf("query xla device: %w", err)
		}
		logger().Debug().Str("device", string(dev)).Msg("placing model")
		return m.ToDevice(dev)
	case opts.CUDA && p.CUDAAvailable():
		logger().Debug().Str("device", string(accel.DeviceCUDA)).Msg("placing model")
		return m.ToDevice(accel.DeviceCUDA)
	}
	return m, nil
}
