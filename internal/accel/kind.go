package accel

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies the strongest accelerator a host offers.
type Kind string

const (
	KindCUDA Kind = "cuda" // dedicated GPU
	KindXLA  Kind = "xla"  // tensor-processing unit
	KindMPS  Kind = "mps"  // unified-memory GPU (Apple Silicon)
	KindCPU  Kind = "cpu"
)

// ParseKind parses a kind name. "auto" and the empty string are rejected;
// callers decide what auto-detection means for them.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindCUDA, KindXLA, KindMPS, KindCPU:
		return k, nil
	case "gpu":
		return KindCUDA, nil
	case "tpu":
		return KindXLA, nil
	default:
		return "", fmt.Errorf("unknown accelerator kind: %q", s)
	}
}

// Device names a placement target.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
	DeviceMPS  Device = "mps"
)

const xlaPrefix = "xla"

// XLADevice returns the device name of the XLA ordinal, e.g. "xla:0".
func XLADevice(ordinal int) Device {
	return Device(xlaPrefix + ":" + strconv.Itoa(ordinal))
}

// IsXLA reports whether d names an XLA device ("xla" or "xla:N").
func (d Device) IsXLA() bool {
	s := string(d)
	if s == xlaPrefix {
		return true
	}
	if !strings.HasPrefix(s, xlaPrefix+":") {
		return false
	}
	_, err := strconv.Atoi(s[len(xlaPrefix)+1:])
	return err == nil
}

// Kind returns the accelerator kind backing d.
func (d Device) Kind() Kind {
	switch {
	case d == DeviceCUDA:
		return KindCUDA
	case d == DeviceMPS:
		return KindMPS
	case d.IsXLA():
		return KindXLA
	default:
		return KindCPU
	}
}

// Valid reports whether d is a known placement target.
func (d Device) Valid() bool {
	switch d {
	case DeviceCPU, DeviceCUDA, DeviceMPS:
		return true
	}
	return d.IsXLA()
}
