package placement

// Options selects which placement steps MoveToDevice may take.
type Options struct {
	// BF16 casts to bfloat16 unless XLA is also set.
	BF16 bool
	// CUDA allows relocation onto a dedicated GPU.
	CUDA bool
	// XLA allows relocation onto a tensor-processing device.
	XLA bool
}

// DefaultOptions enables every step.
func DefaultOptions() Options {
	return Options{BF16: true, CUDA: true, XLA: true}
}
