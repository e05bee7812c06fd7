package formdef

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type documentFile struct {
	Forms map[string]Form `json:"forms" yaml:"forms"`
}

// LoadFS walks fsys and parses every JSON/YAML form document. When fsys is
// nil or holds no documents, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single form document from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse reads a form document. JSON is tried first, then YAML.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) add(data []byte, source string) error {
	var doc documentFile
	if err := decode(data, source, &doc); err != nil {
		return err
	}
	for rawID, form := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("formdef: file %s defines an empty form id", source)
		}
		if _, exists := s.forms[id]; exists {
			return fmt.Errorf("formdef: duplicate form %q (file %s)", id, source)
		}
		normalised, err := normaliseForm(form, id, source)
		if err != nil {
			return err
		}
		s.forms[id] = normalised
	}
	return nil
}

func decode(data []byte, source string, out any) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("formdef: file %s is empty", source)
	}
	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}
	if err := yaml.Unmarshal(data, out); err == nil {
		return nil
	}
	return fmt.Errorf("formdef: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(raw Form, id, source string) (Form, error) {
	form := Form{
		ID:     id,
		Source: source,
		Title:  strings.TrimSpace(raw.Title),
		Submit: strings.TrimSpace(raw.Submit),
		Fields: make([]FieldConfig, 0, len(raw.Fields)),
	}
	seen := make(map[string]struct{}, len(raw.Fields))
	for idx, cfg := range raw.Fields {
		cfg.Name = strings.TrimSpace(cfg.Name)
		cfg.Kind = strings.ToLower(strings.TrimSpace(cfg.Kind))
		cfg.Validate = strings.TrimSpace(cfg.Validate)
		if cfg.Name == "" {
			return Form{}, fmt.Errorf("formdef: form %q (file %s) field %d has no name", id, source, idx)
		}
		if cfg.Kind == "" {
			cfg.Kind = "text"
		}
		if _, dup := seen[cfg.Name]; dup {
			return Form{}, fmt.Errorf("formdef: form %q (file %s) defines duplicate field %q", id, source, cfg.Name)
		}
		seen[cfg.Name] = struct{}{}
		cfg.Options = append([]string(nil), cfg.Options...)
		cfg.Selected = append([]string(nil), cfg.Selected...)
		form.Fields = append(form.Fields, cfg)
	}
	return form, nil
}

// Form returns the definition with the given id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	f, ok := s.forms[id]
	return f, ok
}

// IDs lists the form ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
