package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"devplace/internal/accel"
	"devplace/internal/config"
	"devplace/internal/manager"
	"devplace/internal/model"
	"devplace/internal/placement"
	"devplace/internal/registry"
	"devplace/pkg/types"
)

const mib = 1 << 20

// probeFor returns the host probe for "auto" and a fixed probe otherwise.
func probeFor(cfg config.Config) (accel.Probe, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.Accelerator), config.DefaultAccelerator) {
		return accel.NewHostProbe(), nil
	}
	k, err := accel.ParseKind(cfg.Accelerator)
	if err != nil {
		return nil, err
	}
	var mem uint64
	if cfg.GPUMemoryMB > 0 {
		mem = uint64(cfg.GPUMemoryMB) * mib
	}
	log.Debug().Str("accelerator", string(k)).Uint64("gpu_memory_bytes", mem).Msg("using fixed accelerator")
	return accel.ForKind(k, mem), nil
}

func loaderFor(cfg config.Config) (model.Loader, error) {
	switch strings.ToLower(cfg.Runtime) {
	case "", "descriptor":
		return model.DescriptorLoader, nil
	case "llama":
		return model.LlamaLoader(cfg.LlamaContext), nil
	default:
		return nil, fmt.Errorf("unknown runtime %q (want descriptor or llama)", cfg.Runtime)
	}
}

func defaultsFor(cfg config.Config) placement.Options {
	return placement.Options{
		BF16: config.Flag(cfg.BF16),
		CUDA: config.Flag(cfg.CUDA),
		XLA:  config.Flag(cfg.XLA),
	}
}

// newManager wires a manager from cfg. The models directory is only scanned
// when withModels is set.
func newManager(cfg config.Config, withModels bool) (*manager.Manager, error) {
	probe, err := probeFor(cfg)
	if err != nil {
		return nil, err
	}
	loader, err := loaderFor(cfg)
	if err != nil {
		return nil, err
	}
	var reg []types.Model
	if withModels {
		reg, err = registry.LoadDir(cfg.ModelsDir)
		if err != nil {
			return nil, fmt.Errorf("load models: %w", err)
		}
	}
	defaults := defaultsFor(cfg)
	return manager.NewWithConfig(manager.ManagerConfig{
		Registry: reg,
		Probe:    probe,
		Defaults: &defaults,
		Loader:   loader,
	}), nil
}
