package formdef

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/goliatone/go-formrules/pkg/field"
)

// ParseValues reads a flat name → value map from JSON or YAML. Values are
// strings for text inputs, option values for selects and groups, lists for
// checkbox groups, and booleans for single checkboxes.
func ParseValues(data []byte, source string) (map[string]any, error) {
	out := map[string]any{}
	if err := decode(data, source, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadValues reads a values file from disk.
func LoadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return ParseValues(data, path)
}

// Apply assigns values to the inputs of reg in key order. Every failing key
// is reported.
func Apply(reg *field.Registry, values map[string]any) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := reg.Assign(name, values[name]); err != nil {
			errs = append(errs, fmt.Errorf("formdef: value %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
