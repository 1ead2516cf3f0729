package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"chatctl/internal/common/fsutil"
	"chatctl/pkg/types"
)

// LoadDir scans a directory for *.gguf files and builds a registry from filenames.
// ID is the full filename (including extension); Path is the absolute file path.
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
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		models = append(models, types.Model{ID: name, Name: name, Path: filepath.Join(abs, name), Quant: quantFromName(name)})
	}
	return models, nil
}

// Resolve returns the model matching id, or the sole model when id is empty
// and the registry holds exactly one entry.
func Resolve(models []types.Model, id string) (types.Model, error) {
	if id == "" {
		if len(models) == 1 {
			return models[0], nil
		}
		return types.Model{}, fmt.Errorf("model id required (found %d models)", len(models))
	}
	for _, m := range models {
		if m.ID == id {
			return m, nil
		}
	}
	return types.Model{}, fmt.Errorf("model not found: %s", id)
}

// quantFromName extracts a quantization tag like Q4_K_M from a gguf filename.
func quantFromName(name string) string {
	upper := strings.ToUpper(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, part := range strings.FieldsFunc(upper, func(r rune) bool { return r == '.' || r == '-' }) {
		if strings.HasPrefix(part, "Q") && strings.ContainsRune(part, '_') {
			return part
		}
	}
	return ""
}
