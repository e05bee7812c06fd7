package formdef

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/field"
)

// Build creates the inputs of f, registers them in declaration order and
// verifies every cross-field reference.
func (f Form) Build() (*field.Registry, error) {
	reg := field.NewRegistry()
	var errs []error
	for _, cfg := range f.Fields {
		if err := addField(reg, cfg); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("formdef: form %q: %w", f.ID, err)
	}
	if err := reg.Verify(); err != nil {
		return nil, fmt.Errorf("formdef: form %q: %w", f.ID, err)
	}
	return reg, nil
}

func addField(reg *field.Registry, cfg FieldConfig) error {
	if strings.TrimSpace(cfg.Kind) == "" {
		cfg.Kind = string(field.KindText)
	}
	kind := field.Kind(cfg.Kind)
	if !kind.Valid() {
		return fmt.Errorf("%w: field %q has unknown kind %q", field.ErrKindMismatch, cfg.Name, cfg.Kind)
	}

	if cfg.IsGroup() {
		return addGroup(reg, kind, cfg)
	}

	in, err := newInput(kind, cfg)
	if err != nil {
		return err
	}
	if cfg.Validate == "" {
		return reg.AddInput(in)
	}
	_, err = reg.Add(in, cfg.Validate)
	return err
}

func newInput(kind field.Kind, cfg FieldConfig) (*field.Input, error) {
	options := []field.InputOption{field.WithGroup(cfg.Group)}
	switch kind {
	case field.KindText:
		options = append(options, field.WithText(cfg.Value))
	case field.KindSelect:
		idx := 0
		if cfg.Value != "" {
			idx = indexOf(cfg.Options, cfg.Value)
			if idx < 0 {
				return nil, fmt.Errorf("%w: select %q has no option %q", field.ErrInvalidValue, cfg.Name, cfg.Value)
			}
		}
		options = append(options, field.WithOptions(cfg.Options...), field.WithSelected(idx))
	default:
		option := cfg.Option
		if option == "" {
			option = cfg.Name
		}
		options = append(options, field.WithOption(option), field.WithChecked(cfg.Checked))
	}
	return field.NewInput(cfg.Name, kind, options...), nil
}

func addGroup(reg *field.Registry, kind field.Kind, cfg FieldConfig) error {
	for _, selected := range cfg.Selected {
		if indexOf(cfg.Options, selected) < 0 {
			return fmt.Errorf("%w: group %q has no option %q", field.ErrInvalidValue, cfg.Name, selected)
		}
	}
	if kind == field.KindRadio && len(cfg.Selected) > 1 {
		return fmt.Errorf("%w: radio group %q can select one option", field.ErrInvalidValue, cfg.Name)
	}
	for _, option := range cfg.Options {
		member := field.NewInput(MemberName(cfg.Name, option), kind,
			field.WithGroup(cfg.Name),
			field.WithOption(option),
			field.WithChecked(indexOf(cfg.Selected, option) >= 0),
		)
		if err := reg.AddInput(member); err != nil {
			return err
		}
	}
	if cfg.Validate == "" {
		return nil
	}
	_, err := reg.AddGroup(cfg.Name, kind, cfg.Validate)
	return err
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
