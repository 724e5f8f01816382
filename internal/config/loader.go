package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"devplace/internal/common/fsutil"
)

// Config holds runtime parameters for the CLI and the server.
// Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFile   string `json:"log_file" yaml:"log_file" toml:"log_file"`

	// Accelerator is auto, cuda, xla, mps or cpu. Anything but auto replaces
	// host detection with a fixed answer.
	Accelerator string `json:"accelerator" yaml:"accelerator" toml:"accelerator"`
	// GPUMemoryMB is the GPU memory reported when Accelerator is cuda.
	GPUMemoryMB int `json:"gpu_memory_mb" yaml:"gpu_memory_mb" toml:"gpu_memory_mb"`

	// Placement defaults; nil means enabled.
	BF16 *bool `json:"bf16" yaml:"bf16" toml:"bf16"`
	CUDA *bool `json:"cuda" yaml:"cuda" toml:"cuda"`
	XLA  *bool `json:"xla" yaml:"xla" toml:"xla"`

	// Runtime selects the model loader: descriptor or llama.
	Runtime      string `json:"runtime" yaml:"runtime" toml:"runtime"`
	LlamaContext int    `json:"llama_context" yaml:"llama_context" toml:"llama_context"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
}

// Defaults applied by ApplyDefaults.
const (
	DefaultAddr         = ":8080"
	DefaultModelsDir    = "~/models"
	DefaultLogLevel     = "info"
	DefaultAccelerator  = "auto"
	DefaultRuntime      = "descriptor"
	DefaultLlamaContext = 2048
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", p, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// SearchPaths lists the files Discover looks at, in order.
func SearchPaths() []string {
	return []string{
		"devplace.yaml",
		"devplace.toml",
		"devplace.json",
		"~/.config/devplace/config.yaml",
		"~/.config/devplace/config.toml",
		"~/.config/devplace/config.json",
	}
}

// Discover returns the first existing file from SearchPaths.
func Discover() (string, bool) {
	var expanded []string
	for _, p := range SearchPaths() {
		if e, err := fsutil.ExpandHome(p); err == nil {
			expanded = append(expanded, e)
		}
	}
	return fsutil.FirstExisting(expanded...)
}

// ApplyEnv overrides fields from DEVPLACE_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("DEVPLACE_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("DEVPLACE_MODELS_DIR"); v != "" {
		c.ModelsDir = v
	}
	if v := getenv("DEVPLACE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("DEVPLACE_ACCELERATOR"); v != "" {
		c.Accelerator = v
	}
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Accelerator == "" {
		c.Accelerator = DefaultAccelerator
	}
	if c.Runtime == "" {
		c.Runtime = DefaultRuntime
	}
	if c.LlamaContext <= 0 {
		c.LlamaContext = DefaultLlamaContext
	}
}

// Flag returns *b, or true when b is unset.
func Flag(b *bool) bool {
	return b == nil || *b
}
