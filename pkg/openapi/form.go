package openapi

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formrules/pkg/formdef"
	"github.com/goliatone/go-formrules/pkg/pattern"
	"github.com/goliatone/go-formrules/pkg/rule"
)

// DefaultMaxLength bounds `len` directives derived from a schema that only
// sets minLength.
const DefaultMaxLength = 65535

var formatPresets = map[string]string{
	"email": pattern.Email,
	"date":  pattern.Date,
	"phone": pattern.Phone,
	"tel":   pattern.Phone,
}

// FormFromOperation derives a form definition from the operation's request
// body. Each top-level property becomes a field; its directive comes from
// x-validation when present, otherwise it is derived from required, enum,
// minLength/maxLength, minItems/maxItems and format.
func FormFromOperation(op Operation) (formdef.Form, error) {
	body := op.RequestBody
	if body.Type != "object" && len(body.Properties) == 0 {
		return formdef.Form{}, fmt.Errorf("openapi: operation %q has no object request body", op.ID)
	}

	title := strings.TrimSpace(op.Summary)
	if title == "" {
		title = op.ID
	}
	form := formdef.Form{
		ID:     op.ID,
		Source: strings.TrimSpace(op.Method + " " + op.Path),
		Title:  title,
	}

	required := make(map[string]bool, len(body.Required))
	for _, name := range body.Required {
		required[name] = true
	}

	var errs []error
	for _, name := range orderedProperties(body.Properties) {
		cfg, err := fieldFromSchema(name, body.Properties[name], required[name])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		form.Fields = append(form.Fields, cfg)
	}
	if err := errors.Join(errs...); err != nil {
		return formdef.Form{}, fmt.Errorf("openapi: operation %q: %w", op.ID, err)
	}
	return form, nil
}

func fieldFromSchema(name string, s Schema, required bool) (formdef.FieldConfig, error) {
	cfg := formdef.FieldConfig{
		Name:  name,
		Label: strings.TrimSpace(s.Title),
		Kind:  widgetKind(s),
	}

	switch cfg.Kind {
	case "select":
		cfg.Options = append([]string{""}, enumStrings(s.Enum)...)
	case "radio":
		cfg.Options = enumStrings(s.Enum)
	case "checkbox":
		if s.Items != nil {
			cfg.Options = enumStrings(s.Items.Enum)
		}
	}
	if (cfg.Kind == "radio" || cfg.Kind == "select") && len(s.Enum) == 0 {
		return formdef.FieldConfig{}, fmt.Errorf("property %q: %s widget needs an enum", name, cfg.Kind)
	}

	if directive, ok := s.Extension(ExtensionValidation); ok {
		if _, err := rule.Parse(directive); err != nil {
			return formdef.FieldConfig{}, fmt.Errorf("property %q: %w", name, err)
		}
		cfg.Validate = directive
		return cfg, nil
	}
	cfg.Validate = deriveDirective(name, s, cfg, required).String()
	return cfg, nil
}

func widgetKind(s Schema) string {
	if widget, ok := s.Extension(ExtensionWidget); ok {
		switch widget {
		case "text", "select", "radio", "checkbox":
			return widget
		}
	}
	switch {
	case s.Type == "boolean":
		return "checkbox"
	case s.Type == "array" && s.Items != nil && len(s.Items.Enum) > 0:
		return "checkbox"
	case len(s.Enum) > 0:
		return "select"
	default:
		return "text"
	}
}

func deriveDirective(name string, s Schema, cfg formdef.FieldConfig, required bool) rule.Set {
	var set rule.Set
	switch {
	case cfg.Kind == "select":
		if required {
			set = append(set, rule.SelectRequired{})
		} else {
			set = append(set, rule.SelectAlwaysValid{})
		}
	case cfg.Kind == "radio":
		if required {
			set = append(set, rule.RadioGroupRequired{Group: name})
		}
	case cfg.Kind == "checkbox" && cfg.IsGroup():
		minItems := s.MinItems
		if required && minItems == 0 {
			minItems = 1
		}
		maxItems := len(cfg.Options)
		if s.MaxItems != nil && *s.MaxItems < maxItems {
			maxItems = *s.MaxItems
		}
		if (required || s.MinItems > 0 || s.MaxItems != nil) && minItems <= maxItems {
			set = append(set, rule.CheckboxGroupCount{Group: name, Min: minItems, Max: maxItems})
		}
	case cfg.Kind == "text":
		if required {
			set = append(set, rule.Required{})
		}
		if s.MinLength != nil || s.MaxLength != nil {
			l := rule.Length{Max: DefaultMaxLength}
			if s.MinLength != nil {
				l.Min = *s.MinLength
			}
			if s.MaxLength != nil {
				l.Max = *s.MaxLength
			}
			if l.Min <= l.Max {
				set = append(set, l)
			}
		}
		if preset, ok := formatPresets[strings.ToLower(s.Format)]; ok {
			set = append(set, rule.Pattern{Preset: preset})
		}
	}
	return set
}

func orderedProperties(props map[string]Schema) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		oi, iok := propertyOrder(props[names[i]])
		oj, jok := propertyOrder(props[names[j]])
		switch {
		case iok && jok && oi != oj:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func propertyOrder(s Schema) (int, bool) {
	switch v := s.Extensions[ExtensionOrder].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		return n, err == nil
	default:
		return 0, false
	}
}

func enumStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case nil:
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out
}
