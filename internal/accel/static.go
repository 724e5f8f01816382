package accel

// Static is a Probe with fixed answers. It backs the accelerator override
// in the config file and the tests.
type Static struct {
	CUDA            bool
	CUDAMemoryBytes uint64
	CUDAErr         error

	XLA    bool
	XLADev Device
	XLAErr error

	MPS    bool
	MPSErr error

	HostMemoryBytes uint64
}

// ForKind returns a Static probe that reports exactly one accelerator kind.
// gpuMemoryBytes is only used for KindCUDA.
func ForKind(k Kind, gpuMemoryBytes uint64) Static {
	switch k {
	case KindCUDA:
		return Static{CUDA: true, CUDAMemoryBytes: gpuMemoryBytes}
	case KindXLA:
		return Static{XLA: true, XLADev: XLADevice(0)}
	case KindMPS:
		return Static{MPS: true}
	default:
		return Static{}
	}
}

func (s Static) CUDAAvailable() bool { return s.CUDA }

func (s Static) CUDATotalMemory(ordinal int) (uint64, error) {
	if s.CUDAErr != nil {
		return 0, s.CUDAErr
	}
	if !s.CUDA || ordinal != 0 {
		return 0, ErrNoDevice
	}
	return s.CUDAMemoryBytes, nil
}

func (s Static) XLAAvailable() bool { return s.XLA }

func (s Static) XLADevice() (Device, error) {
	if s.XLAErr != nil {
		return "", s.XLAErr
	}
	if !s.XLA {
		return "", ErrNoDevice
	}
	if s.XLADev == "" {
		return XLADevice(0), nil
	}
	return s.XLADev, nil
}

func (s Static) MPSAvailable() (bool, error) {
	if s.MPSErr != nil {
		return false, s.MPSErr
	}
	return s.MPS, nil
}

func (s Static) HostMemory() (uint64, error) { return s.HostMemoryBytes, nil }
