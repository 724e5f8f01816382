package accel

import (
	"errors"
	"fmt"
)

// Probe answers the capability questions asked by the batch-size estimator
// and the device placer. Implementations must be safe to call repeatedly.
type Probe interface {
	// CUDAAvailable reports whether a dedicated GPU is present.
	CUDAAvailable() bool
	// CUDATotalMemory returns the total memory of the GPU ordinal in bytes.
	CUDATotalMemory(ordinal int) (uint64, error)
	// XLAAvailable reports whether the tensor-processing runtime is present.
	// The answer is fixed for the lifetime of the process.
	XLAAvailable() bool
	// XLADevice returns the default XLA device.
	XLADevice() (Device, error)
	// MPSAvailable reports whether a unified-memory GPU is usable. It returns
	// ErrCapabilityUnsupported when the check itself does not exist.
	MPSAvailable() (bool, error)
}

// HostMemoryProber is implemented by probes that can report system memory.
type HostMemoryProber interface {
	HostMemory() (uint64, error)
}

// UnifiedMemoryAvailable asks p for MPS support and folds
// ErrCapabilityUnsupported into "not available". Every other error is
// returned as is.
func UnifiedMemoryAvailable(p Probe) (bool, error) {
	ok, err := p.MPSAvailable()
	if errors.Is(err, ErrCapabilityUnsupported) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Capabilities is a point-in-time snapshot of a Probe.
type Capabilities struct {
	Kind            Kind
	CUDA            bool
	CUDAMemoryBytes uint64
	XLA             bool
	XLADevice       Device
	MPS             bool
	HostMemoryBytes uint64

	// MPSSupported is false when the host has no unified-memory check at all.
	MPSSupported bool
}

// Detect snapshots p. Kind follows the estimator's precedence:
// cuda, then xla, then mps, then cpu.
func Detect(p Probe) (Capabilities, error) {
	caps := Capabilities{Kind: KindCPU, MPSSupported: true}

	if p.CUDAAvailable() {
		mem, err := p.CUDATotalMemory(0)
		if err != nil {
			return caps, fmt.Errorf("cuda memory: %w", err)
		}
		caps.CUDA = true
		caps.CUDAMemoryBytes = mem
	}
	if p.XLAAvailable() {
		dev, err := p.XLADevice()
		if err != nil {
			return caps, fmt.Errorf("xla device: %w", err)
		}
		caps.XLA = dev != ""
		caps.XLADevice = dev
	}
	mps, err := p.MPSAvailable()
	switch {
	case errors.Is(err, ErrCapabilityUnsupported):
		caps.MPSSupported = false
	case err != nil:
		return caps, fmt.Errorf("mps check: %w", err)
	default:
		caps.MPS = mps
	}
	if hm, ok := p.(HostMemoryProber); ok {
		total, err := hm.HostMemory()
		if err != nil {
			return caps, fmt.Errorf("host memory: %w", err)
		}
		caps.HostMemoryBytes = total
	}

	switch {
	case caps.CUDA:
		caps.Kind = KindCUDA
	case caps.XLA:
		caps.Kind = KindXLA
	case caps.MPS:
		caps.Kind = KindMPS
	}
	return caps, nil
}
