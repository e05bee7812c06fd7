package field

import (
	"strings"

	"github.com/goliatone/go-formrules/pkg/rule"
)

// Kind enumerates the widget families the engine understands.
type Kind string

const (
	KindText     Kind = "text"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
	KindSelect   Kind = "select"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindCheckbox, KindRadio, KindSelect:
		return true
	}
	return false
}

// Value is the current state of an input. Text-like inputs use Text;
// checkboxes and radios use Checked; selects use SelectedIndex and mirror the
// selected option in Text.
type Value struct {
	Text          string
	Checked       bool
	SelectedIndex int
}

// Trimmed returns Text without surrounding whitespace.
func (v Value) Trimmed() string {
	return strings.TrimSpace(v.Text)
}

// Source is the read side of an input supplied by the widget layer.
type Source interface {
	Name() string
	Kind() Kind
	// Group is the shared name of checkbox/radio members; empty otherwise.
	Group() string
	Value() Value
}

// Notifier is implemented by sources that publish change notifications.
type Notifier interface {
	OnChange(fn func(name string))
}

// Status is the per-field validation state.
type Status int

const (
	StatusUnvalidated Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unvalidated"
	}
}

// Field is a validation-enabled input together with its rules and the outcome
// of the most recent pass.
type Field struct {
	Source    Source
	Directive string
	Rules     rule.Set

	valid   bool
	status  Status
	message string
}

// Name returns the source name.
func (f *Field) Name() string {
	return f.Source.Name()
}

// Valid reports the validity recorded by the last pass. Unvalidated fields
// are not valid.
func (f *Field) Valid() bool {
	return f.valid
}

// Status returns the state recorded by the last pass.
func (f *Field) Status() Status {
	return f.status
}

// Message returns the failure message recorded by the last pass.
func (f *Field) Message() string {
	return f.message
}
