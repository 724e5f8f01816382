package placement

import (
	"fmt"
	"strings"

	"devplace/internal/accel"
)

// DType is the numeric representation of a model's parameters.
type DType string

const (
	Float32  DType = "float32"
	BFloat16 DType = "bfloat16"
)

// ParseDType accepts the canonical names plus the short forms "fp32"/"bf16".
func ParseDType(s string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "fp32", "f32":
		return Float32, nil
	case "bfloat16", "bf16":
		return BFloat16, nil
	default:
		return "", fmt.Errorf("unknown dtype: %q", s)
	}
}

// Model is a handle to a model owned by the caller. ToDevice and ToDType
// return the handle to keep using, which may be the receiver itself.
type Model interface {
	ToDevice(d accel.Device) (Model, error)
	ToDType(dt DType) (Model, error)
}
