package types

// ProbeResponse is returned by GET /probe.
type ProbeResponse struct {
	// Strongest accelerator kind: cuda, xla, mps or cpu.
	// example: cuda
	Accelerator string `json:"accelerator" example:"cuda"`
	// Dedicated GPU present.
	CUDA bool `json:"cuda"`
	// Total memory of GPU 0 in bytes.
	// example: 25769803776
	CUDAMemoryBytes uint64 `json:"cuda_memory_bytes,omitempty" example:"25769803776"`
	// Tensor-processing runtime present.
	XLA bool `json:"xla"`
	// Default XLA device.
	// example: xla:0
	XLADevice string `json:"xla_device,omitempty" example:"xla:0"`
	// Unified-memory GPU usable.
	MPS bool `json:"mps"`
	// Whether the host can answer the unified-memory question at all.
	MPSSupported bool `json:"mps_supported"`
	// Total system memory in bytes.
	// example: 68719476736
	HostMemoryBytes uint64 `json:"host_memory_bytes,omitempty" example:"68719476736"`
}

// BatchSizeResponse is returned by GET /batch-size.
type BatchSizeResponse struct {
	// Suggested inference batch size.
	// example: 7
	BatchSize int `json:"batch_size" example:"7"`
	// Accelerator kind the size was derived from.
	// example: cuda
	Accelerator string `json:"accelerator" example:"cuda"`
}

// PlaceRequest is the body of POST /place. Unset flags take the server
// defaults (all enabled unless configured otherwise).
type PlaceRequest struct {
	// Model identifier from GET /models.
	// example: tinyllama.Q4_K_M.gguf
	Model string `json:"model" example:"tinyllama.Q4_K_M.gguf"`
	// Cast to bfloat16 (skipped when xla is enabled).
	BF16 *bool `json:"bf16,omitempty"`
	// Allow placement on a dedicated GPU.
	CUDA *bool `json:"cuda,omitempty"`
	// Allow placement on a tensor-processing device.
	XLA *bool `json:"xla,omitempty"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	Models []Model `json:"models"`
}

// PlacementsResponse wraps GET /placements.
type PlacementsResponse struct {
	Placements []Placement `json:"placements"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// example: ready
	State string `json:"state" example:"ready"`
	// example: cuda
	Accelerator string `json:"accelerator" example:"cuda"`
	// Number of models in the registry.
	// example: 3
	Models int `json:"models" example:"3"`
	// Number of placed models.
	// example: 1
	Placed int `json:"placed" example:"1"`
	// Total placements performed since start.
	// example: 4
	PlacementsTotal uint64 `json:"placements_total" example:"4"`
	// Last placement error, if any.
	LastError string `json:"last_error,omitempty"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
