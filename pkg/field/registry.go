package field

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formrules/pkg/rule"
)

// Registry holds the inputs of one form. Fields (inputs with a directive) are
// kept in declaration order, which is the order a validation pass follows.
type Registry struct {
	inputs map[string]Source
	order  []string
	fields []*Field
	byName map[string]*Field
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		inputs: make(map[string]Source),
		byName: make(map[string]*Field),
	}
}

// AddInput registers an input that carries no directive, such as a radio or
// checkbox member that a group rule counts.
func (r *Registry) AddInput(src Source) error {
	if src == nil {
		return errors.New("field: source is required")
	}
	name := strings.TrimSpace(src.Name())
	if name == "" {
		return errors.New("field: source name is required")
	}
	if !src.Kind().Valid() {
		return fmt.Errorf("%w: %q has unknown kind %q", ErrKindMismatch, name, src.Kind())
	}
	if _, exists := r.inputs[name]; exists {
		return fmt.Errorf("%w %q", ErrDuplicateField, name)
	}
	r.inputs[name] = src
	r.order = append(r.order, name)
	return nil
}

// Add registers a validation-enabled input. The directive is parsed here so a
// malformed directive fails before any pass runs.
func (r *Registry) Add(src Source, directive string) (*Field, error) {
	if src == nil {
		return nil, errors.New("field: source is required")
	}
	rules, err := rule.Parse(directive)
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", src.Name(), err)
	}
	if err := r.AddInput(src); err != nil {
		return nil, err
	}
	f := &Field{Source: src, Directive: directive, Rules: rules}
	r.fields = append(r.fields, f)
	r.byName[f.Name()] = f
	return f, nil
}

// AddGroup registers a validation-enabled field standing for a whole checkbox
// or radio group. Its value is derived from the members sharing the name.
func (r *Registry) AddGroup(name string, kind Kind, directive string) (*Field, error) {
	if kind != KindCheckbox && kind != KindRadio {
		return nil, fmt.Errorf("%w: group %q must be checkbox or radio, got %q", ErrKindMismatch, name, kind)
	}
	return r.Add(&groupSource{registry: r, name: name, kind: kind}, directive)
}

// Fields returns the validation-enabled fields in declaration order.
func (r *Registry) Fields() []*Field {
	return append([]*Field(nil), r.fields...)
}

// Field returns the validation-enabled field with the given name.
func (r *Registry) Field(name string) (*Field, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Input returns any registered input by name.
func (r *Registry) Input(name string) (Source, bool) {
	src, ok := r.inputs[name]
	return src, ok
}

// Inputs returns every registered input in registration order.
func (r *Registry) Inputs() []Source {
	out := make([]Source, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.inputs[name])
	}
	return out
}

// Members returns the inputs whose group is name, in registration order.
func (r *Registry) Members(group string) []Source {
	if group == "" {
		return nil
	}
	var out []Source
	for _, name := range r.order {
		src := r.inputs[name]
		if src.Group() == group {
			out = append(out, src)
		}
	}
	return out
}

// Len reports the number of validation-enabled fields.
func (r *Registry) Len() int {
	return len(r.fields)
}

// Record stores the outcome of a pass on the named field. The orchestrator is
// the only caller; evaluators never mutate the registry.
func (r *Registry) Record(name string, valid bool, message string) error {
	f, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	f.valid = valid
	if valid {
		f.status = StatusValid
		f.message = ""
	} else {
		f.status = StatusInvalid
		f.message = message
	}
	return nil
}

// Watch subscribes fn to change notifications of every input that publishes
// them. Inputs registered afterwards are not covered.
func (r *Registry) Watch(fn func(name string)) {
	if fn == nil {
		return
	}
	for _, name := range r.order {
		if notifier, ok := r.inputs[name].(Notifier); ok {
			notifier.OnChange(fn)
		}
	}
}

// Verify checks every cross-field reference and rule/kind pairing. All
// problems are reported together.
func (r *Registry) Verify() error {
	var errs []error
	for _, f := range r.fields {
		for _, d := range f.Rules {
			if err := r.verifyRule(f, d); err != nil {
				errs = append(errs, fmt.Errorf("field %q: %s: %w", f.Name(), d, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) verifyRule(f *Field, d rule.Descriptor) error {
	switch d := d.(type) {
	case rule.SelectRequired, rule.SelectAlwaysValid:
		if f.Source.Kind() != KindSelect {
			return fmt.Errorf("%w: rule needs a select, field is %s", ErrKindMismatch, f.Source.Kind())
		}
	case rule.MatchField:
		if _, ok := r.inputs[d.Other]; !ok {
			return fmt.Errorf("%w %q", ErrUnknownField, d.Other)
		}
	case rule.EitherOr:
		if _, ok := r.byName[d.Other]; !ok {
			return fmt.Errorf("%w %q (or: needs a validated field)", ErrUnknownField, d.Other)
		}
	case rule.RadioGroupRequired:
		return r.verifyGroup(d.Group, KindRadio)
	case rule.CheckboxGroupCount:
		return r.verifyGroup(d.Group, KindCheckbox)
	}
	return nil
}

func (r *Registry) verifyGroup(group string, kind Kind) error {
	members := r.Members(group)
	if len(members) == 0 {
		return fmt.Errorf("%w %q", ErrUnknownGroup, group)
	}
	for _, m := range members {
		if m.Kind() != kind {
			return fmt.Errorf("%w: member %q of group %q is %s", ErrKindMismatch, m.Name(), group, m.Kind())
		}
	}
	return nil
}

// groupSource is the Source of a field registered through AddGroup.
type groupSource struct {
	registry *Registry
	name     string
	kind     Kind
}

func (g *groupSource) Name() string  { return g.name }
func (g *groupSource) Kind() Kind    { return g.kind }
func (g *groupSource) Group() string { return "" }

// Value reports whether any member is checked; Text lists the checked
// options separated by commas.
func (g *groupSource) Value() Value {
	var (
		checked []string
		v       Value
	)
	for _, m := range g.registry.Members(g.name) {
		if !m.Value().Checked {
			continue
		}
		v.Checked = true
		checked = append(checked, optionOf(m))
	}
	v.Text = strings.Join(checked, ",")
	return v
}

func optionOf(src Source) string {
	if in, ok := src.(*Input); ok && in.Option() != "" {
		return in.Option()
	}
	return src.Name()
}
