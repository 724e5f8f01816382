package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"devplace/internal/common/fsutil"
	"devplace/pkg/types"
)

// formats maps recognized model file extensions to a format name.
var formats = map[string]string{
	".gguf":        "gguf",
	".safetensors": "safetensors",
	".bin":         "bin",
	".pt":          "torch",
	".pth":         "torch",
}

// quantPattern matches GGUF-style quantization tags in file names
// (Q4_K_M, Q8_0, IQ3_XS, F16, BF16).
var quantPattern = regexp.MustCompile(`(?i)(?:^|[._-])((?:I?Q\d+(?:_[A-Z0-9]+)*)|B?F16|F32)(?:[._-]|$)`)

// LoadDir scans a directory for model files and builds a registry from
// file names. ID is the full file name, Path the absolute file path.
// Results are sorted by ID.
func LoadDir(dir string) ([]types.Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		format, ok := formats[ext]
		if !ok {
			continue
		}
		m := types.Model{
			ID:     name,
			Name:   strings.TrimSuffix(name, filepath.Ext(name)),
			Path:   filepath.Join(abs, name),
			Format: format,
			Quant:  parseQuant(name),
		}
		if fi, err := e.Info(); err == nil {
			m.SizeBytes = fi.Size()
		}
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models, nil
}

func parseQuant(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if m := quantPattern.FindStringSubmatch(stem); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}
