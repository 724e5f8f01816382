package accel

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"devplace/internal/common/fsutil"
)

const defaultSMITimeout = 5 * time.Second

// Files whose presence indicates an NVIDIA driver stack.
var nvidiaMarkers = []string{
	"/dev/nvidia0",
	"/usr/lib/libnvidia-ml.so",
	"/usr/lib/x86_64-linux-gnu/libnvidia-ml.so.1",
	"/usr/lib64/libnvidia-ml.so.1",
}

var (
	tpuEnvVars  = []string{"TPU_NAME", "TPU_ACCELERATOR_TYPE", "TPU_LIBRARY_PATH"}
	tpuMarkers  = []string{"/dev/accel0", "/dev/vfio/0"}
	xlaDetected = sync.OnceValue(func() bool {
		return detectXLA(os.Getenv, fsutil.PathExists)
	})
)

func detectXLA(getenv func(string) string, exists func(string) bool) bool {
	for _, k := range tpuEnvVars {
		if strings.TrimSpace(getenv(k)) != "" {
			return true
		}
	}
	for _, p := range tpuMarkers {
		if exists(p) {
			return true
		}
	}
	return false
}

// HostProbe inspects the machine it runs on.
//
// CUDA presence is inferred from driver files or an nvidia-smi binary on
// PATH, and memory is read through nvidia-smi. The XLA runtime is probed
// once per process. The unified-memory check only exists on darwin.
type HostProbe struct {
	// NvidiaSMI is the nvidia-smi executable (name or path).
	NvidiaSMI string
	// Timeout bounds a single nvidia-smi invocation.
	Timeout time.Duration

	goos   string
	goarch string
	exists func(string) bool
	xla    func() bool
}

// NewHostProbe returns a probe for the current host.
func NewHostProbe() *HostProbe {
	return &HostProbe{
		NvidiaSMI: "nvidia-smi",
		Timeout:   defaultSMITimeout,
		goos:      runtime.GOOS,
		goarch:    runtime.GOARCH,
		exists:    fsutil.PathExists,
		xla:       xlaDetected,
	}
}

func (h *HostProbe) platform() string {
	if h.goos != "" {
		return h.goos
	}
	return runtime.GOOS
}

func (h *HostProbe) cpuArch() string {
	if h.goarch != "" {
		return h.goarch
	}
	return runtime.GOARCH
}

func (h *HostProbe) pathExists(p string) bool {
	if h.exists != nil {
		return h.exists(p)
	}
	return fsutil.PathExists(p)
}

func (h *HostProbe) smi() string {
	if h.NvidiaSMI != "" {
		return h.NvidiaSMI
	}
	return "nvidia-smi"
}

func (h *HostProbe) CUDAAvailable() bool {
	if h.platform() == "darwin" {
		return false
	}
	for _, p := range nvidiaMarkers {
		if h.pathExists(p) {
			return true
		}
	}
	_, err := exec.LookPath(h.smi())
	return err == nil
}

func (h *HostProbe) CUDATotalMemory(ordinal int) (uint64, error) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultSMITimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, h.smi(),
		"--query-gpu=memory.total",
		"--format=csv,noheader,nounits",
		"-i", strconv.Itoa(ordinal),
	).Output()
	if err != nil {
		return 0, fmt.Errorf("nvidia-smi: %w", err)
	}
	return parseSMIMemory(out)
}

// parseSMIMemory converts the first line of nvidia-smi output (MiB) to bytes.
func parseSMIMemory(out []byte) (uint64, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, fmt.Errorf("nvidia-smi: empty memory output")
	}
	mib, err := strconv.ParseUint(line, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("nvidia-smi: parse memory %q: %w", line, err)
	}
	return mib * 1024 * 1024, nil
}

func (h *HostProbe) XLAAvailable() bool {
	if h.xla != nil {
		return h.xla()
	}
	return xlaDetected()
}

func (h *HostProbe) XLADevice() (Device, error) {
	if !h.XLAAvailable() {
		return "", fmt.Errorf("xla runtime not detected: %w", ErrNoDevice)
	}
	return XLADevice(0), nil
}

func (h *HostProbe) MPSAvailable() (bool, error) {
	if h.platform() != "darwin" {
		return false, ErrCapabilityUnsupported
	}
	return h.cpuArch() == "arm64", nil
}

// HostMemory returns total system memory, which is also the memory pool of
// a unified-memory GPU.
func (h *HostProbe) HostMemory() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("virtual memory: %w", err)
	}
	return vm.Total, nil
}
