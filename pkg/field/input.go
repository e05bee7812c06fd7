package field

import "sync"

// Input is an in-memory Source. It stands in for a widget: callers set values
// through it and registered listeners are told about every change.
type Input struct {
	name    string
	kind    Kind
	group   string
	option  string
	options []string

	mu        sync.RWMutex
	value     Value
	listeners []func(string)
}

// InputOption configures an Input.
type InputOption func(*Input)

// WithGroup places a checkbox or radio input in a named group.
func WithGroup(group string) InputOption {
	return func(in *Input) {
		in.group = group
	}
}

// WithOption sets the submitted value of a checkbox or radio member.
func WithOption(value string) InputOption {
	return func(in *Input) {
		in.option = value
	}
}

// WithOptions sets the option list of a select. Index 0 is the placeholder.
func WithOptions(options ...string) InputOption {
	return func(in *Input) {
		in.options = append([]string(nil), options...)
	}
}

// WithText seeds the text value.
func WithText(text string) InputOption {
	return func(in *Input) {
		in.value.Text = text
	}
}

// WithChecked seeds the checked state.
func WithChecked(checked bool) InputOption {
	return func(in *Input) {
		in.value.Checked = checked
	}
}

// WithSelected seeds the selected option index of a select.
func WithSelected(index int) InputOption {
	return func(in *Input) {
		in.value.SelectedIndex = index
	}
}

// NewInput constructs an Input of the given kind.
func NewInput(name string, kind Kind, options ...InputOption) *Input {
	in := &Input{name: name, kind: kind}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(in)
	}
	if in.kind == KindSelect {
		in.value.Text = in.optionAt(in.value.SelectedIndex)
	}
	return in
}

func (in *Input) Name() string  { return in.name }
func (in *Input) Kind() Kind    { return in.kind }
func (in *Input) Group() string { return in.group }

// Option returns the submitted value of a checkbox or radio member.
func (in *Input) Option() string { return in.option }

// Options returns the option list of a select.
func (in *Input) Options() []string {
	return append([]string(nil), in.options...)
}

func (in *Input) Value() Value {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return in.value
}

// OnChange registers a change listener.
func (in *Input) OnChange(fn func(name string)) {
	if fn == nil {
		return
	}
	in.mu.Lock()
	in.listeners = append(in.listeners, fn)
	in.mu.Unlock()
}

// SetText replaces the text value.
func (in *Input) SetText(text string) {
	in.update(func(v *Value) { v.Text = text })
}

// SetChecked replaces the checked state.
func (in *Input) SetChecked(checked bool) {
	in.update(func(v *Value) { v.Checked = checked })
}

// Select picks the option at index. Out of range indices are rejected.
func (in *Input) Select(index int) error {
	if in.kind != KindSelect {
		return ErrKindMismatch
	}
	if index < 0 || index >= len(in.options) {
		return ErrInvalidValue
	}
	in.update(func(v *Value) {
		v.SelectedIndex = index
		v.Text = in.options[index]
	})
	return nil
}

// update applies fn and notifies listeners when the value changed. Listeners
// run outside the lock so they may read the input.
func (in *Input) update(fn func(*Value)) {
	in.mu.Lock()
	before := in.value
	fn(&in.value)
	changed := before != in.value
	listeners := make([]func(string), len(in.listeners))
	copy(listeners, in.listeners)
	in.mu.Unlock()

	if !changed {
		return
	}
	for _, listener := range listeners {
		listener(in.name)
	}
}

func (in *Input) optionAt(index int) string {
	if index < 0 || index >= len(in.options) {
		return ""
	}
	return in.options[index]
}
