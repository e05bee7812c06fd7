package field

import (
	"fmt"
	"math"
	"strconv"
)

// Check sets the checked state of a checkbox or radio input the way a
// browser widget would: checking a radio unchecks the rest of its group.
func (r *Registry) Check(name string, checked bool) error {
	in, err := r.settable(name)
	if err != nil {
		return err
	}
	switch in.Kind() {
	case KindCheckbox:
		in.SetChecked(checked)
	case KindRadio:
		if checked && in.Group() != "" {
			for _, m := range r.Members(in.Group()) {
				if sibling, ok := m.(*Input); ok && sibling != in {
					sibling.SetChecked(false)
				}
			}
		}
		in.SetChecked(checked)
	default:
		return fmt.Errorf("%w: %q is %s, not checkable", ErrKindMismatch, name, in.Kind())
	}
	return nil
}

// Assign applies a decoded value (from JSON or YAML) to the named input or
// group. Strings and numbers go to text inputs, option values or indices to
// selects, booleans to single checkboxes and radios, and a string or list of
// option values to a group.
func (r *Registry) Assign(name string, value any) error {
	src, ok := r.inputs[name]
	if ok {
		if _, isGroup := src.(*groupSource); !isGroup {
			return r.assignInput(name, value)
		}
	}
	if len(r.Members(name)) > 0 {
		return r.assignGroup(name, value)
	}
	return fmt.Errorf("%w %q", ErrUnknownField, name)
}

func (r *Registry) assignInput(name string, value any) error {
	in, err := r.settable(name)
	if err != nil {
		return err
	}
	switch in.Kind() {
	case KindText:
		text, ok := scalarString(value)
		if !ok {
			return fmt.Errorf("%w: %q expects text, got %T", ErrInvalidValue, name, value)
		}
		in.SetText(text)
		return nil
	case KindSelect:
		return assignSelect(in, value)
	default:
		checked, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q expects a boolean, got %T", ErrInvalidValue, name, value)
		}
		return r.Check(name, checked)
	}
}

func assignSelect(in *Input, value any) error {
	switch v := value.(type) {
	case int:
		return in.Select(v)
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("%w: %q expects an option index, got %v", ErrInvalidValue, in.Name(), v)
		}
		return in.Select(int(v))
	case string:
		for idx, option := range in.options {
			if option == v {
				return in.Select(idx)
			}
		}
		return fmt.Errorf("%w: %q has no option %q", ErrInvalidValue, in.Name(), v)
	default:
		return fmt.Errorf("%w: %q expects an option, got %T", ErrInvalidValue, in.Name(), value)
	}
}

func (r *Registry) assignGroup(group string, value any) error {
	selected := make(map[string]bool)
	switch v := value.(type) {
	case nil:
	case string:
		selected[v] = true
	case []string:
		for _, s := range v {
			selected[s] = true
		}
	case []any:
		for _, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return fmt.Errorf("%w: group %q expects option values, got %T", ErrInvalidValue, group, item)
			}
			selected[s] = true
		}
	default:
		return fmt.Errorf("%w: group %q expects option values, got %T", ErrInvalidValue, group, value)
	}

	for _, m := range r.Members(group) {
		in, ok := m.(*Input)
		if !ok {
			return fmt.Errorf("%w: member %q is read-only", ErrKindMismatch, m.Name())
		}
		in.SetChecked(selected[optionOf(in)])
	}
	return nil
}

// Values collects the submitted payload: text and select values by name,
// single checkboxes and radios as booleans, radio groups as the checked
// option and checkbox groups as the list of checked options.
func (r *Registry) Values() map[string]any {
	out := make(map[string]any, len(r.order))
	for _, name := range r.order {
		src := r.inputs[name]
		if _, isGroup := src.(*groupSource); isGroup {
			continue
		}
		v := src.Value()
		group := src.Group()
		switch {
		case group != "" && src.Kind() == KindRadio:
			if _, seen := out[group]; !seen {
				out[group] = ""
			}
			if v.Checked {
				out[group] = optionOf(src)
			}
		case group != "" && src.Kind() == KindCheckbox:
			list, _ := out[group].([]string)
			if list == nil {
				list = []string{}
			}
			if v.Checked {
				list = append(list, optionOf(src))
			}
			out[group] = list
		case src.Kind() == KindText || src.Kind() == KindSelect:
			out[name] = v.Text
		default:
			out[name] = v.Checked
		}
	}
	return out
}

func (r *Registry) settable(name string) (*Input, error) {
	src, ok := r.inputs[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	in, ok := src.(*Input)
	if !ok {
		return nil, fmt.Errorf("%w: %q is read-only", ErrKindMismatch, name)
	}
	return in, nil
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
