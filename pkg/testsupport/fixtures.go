// Package testsupport holds fixture and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/formdef"
	"github.com/goliatone/go-formrules/pkg/orchestrator"
)

// LoadForm reads a definition file and returns the form with the given id.
func LoadForm(path, id string) (formdef.Form, error) {
	if path == "" {
		return formdef.Form{}, errors.New("testsupport: form path is required")
	}
	store, err := formdef.LoadFile(path)
	if err != nil {
		return formdef.Form{}, fmt.Errorf("testsupport: load forms: %w", err)
	}
	form, ok := store.Form(id)
	if !ok {
		return formdef.Form{}, fmt.Errorf("testsupport: form %q not found in %s", id, path)
	}
	return form, nil
}

// MustLoadForm is LoadForm for tests.
func MustLoadForm(t *testing.T, path, id string) formdef.Form {
	t.Helper()

	form, err := LoadForm(path, id)
	if err != nil {
		t.Fatalf("load form: %v", err)
	}
	return form
}

// MustBuild builds an orchestrator for the form, applies values when given,
// and fails the test on any error.
func MustBuild(t *testing.T, form formdef.Form, values map[string]any, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()

	reg, err := form.Build()
	if err != nil {
		t.Fatalf("build form %q: %v", form.ID, err)
	}
	if len(values) > 0 {
		if err := formdef.Apply(reg, values); err != nil {
			t.Fatalf("apply values: %v", err)
		}
	}
	o, err := orchestrator.New(reg, options...)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
