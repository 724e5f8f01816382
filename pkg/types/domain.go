package types

// Model represents a model file discovered on disk.
type Model struct {
	// Stable identifier for the model (the file name).
	// example: tinyllama.Q4_K_M.gguf
	ID string `json:"id" example:"tinyllama.Q4_K_M.gguf"`
	// Human-friendly name.
	// example: tinyllama
	Name string `json:"name" example:"tinyllama"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/tinyllama.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/tinyllama.Q4_K_M.gguf"`
	// File format derived from the extension.
	// example: gguf
	Format string `json:"format" example:"gguf"`
	// Quantization level parsed from the file name, if any.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// File size in bytes.
	// example: 668788096
	SizeBytes int64 `json:"size_bytes" example:"668788096"`
}

// Placement records where a model ended up.
type Placement struct {
	// Model identifier.
	// example: tinyllama.Q4_K_M.gguf
	ModelID string `json:"model_id" example:"tinyllama.Q4_K_M.gguf"`
	// Device the model is on (cpu, cuda, mps, xla:N).
	// example: cuda
	Device string `json:"device" example:"cuda"`
	// Numeric representation of the parameters.
	// example: bfloat16
	DType string `json:"dtype" example:"bfloat16"`
	// Options the placement ran with.
	BF16 bool `json:"bf16"`
	CUDA bool `json:"cuda"`
	XLA  bool `json:"xla"`
	// Time of the placement (unix seconds).
	// example: 1700000000
	PlacedUnix int64 `json:"placed_unix" example:"1700000000"`
}
