package evaluator

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formrules/pkg/field"
	"github.com/goliatone/go-formrules/pkg/pattern"
	"github.com/goliatone/go-formrules/pkg/rule"
)

// Failure messages shown to the user.
const (
	MsgRequired      = "Required"
	MsgInvalidChars  = "Contains invalid characters"
	MsgInvalidEmail  = "Not a valid email address"
	MsgDoesNotMatch  = "Does not match"
	msgTooShort      = "Must be longer than %d characters"
	msgTooLong       = "Must be shorter than %d characters"
	msgSelectAtLeast = "Select at least %d"
	msgSelectAtMost  = "Select %d at most"
	msgEitherOr      = "Either this or %s must be filled in"
)

var (
	// ErrUnknownField is returned when a rule names an input that does not exist.
	ErrUnknownField = errors.New("evaluator: unknown field")
	// ErrUnsupportedRule is returned for descriptors the evaluator does not know.
	ErrUnsupportedRule = errors.New("evaluator: unsupported rule")
)

// View is the read-only access to the form an evaluation needs. Values are
// current; Validity reports the outcome of the previous pass.
type View interface {
	Lookup(name string) (field.Source, bool)
	Validity(name string) (valid bool, ok bool)
	Members(group string) []field.Source
}

// Result is the outcome of one rule or one field: valid, or invalid with a
// message for the user.
type Result struct {
	Valid   bool
	Message string
}

// Pass returns a valid result.
func Pass() Result { return Result{Valid: true} }

// Fail returns an invalid result carrying message.
func Fail(message string) Result { return Result{Message: message} }

// Evaluator decides a single rule for a single field.
type Evaluator interface {
	Evaluate(d rule.Descriptor, src field.Source, view View) (Result, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(d rule.Descriptor, src field.Source, view View) (Result, error)

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(d rule.Descriptor, src field.Source, view View) (Result, error) {
	return fn(d, src, view)
}

// Engine is the built-in evaluator covering every rule kind in package rule.
type Engine struct{}

// New returns the built-in evaluator.
func New() *Engine { return &Engine{} }

// Evaluate applies d to src. Configuration problems (unknown fields, groups
// or presets, kind mismatches) come back as errors, never as results.
func (e *Engine) Evaluate(d rule.Descriptor, src field.Source, view View) (Result, error) {
	value := src.Value().Trimmed()

	switch d := d.(type) {
	case rule.Required:
		if k := src.Kind(); k == field.KindCheckbox || k == field.KindRadio {
			// checkables carry no text; a group source is checked when any member is
			if !src.Value().Checked {
				return Fail(MsgRequired), nil
			}
			return Pass(), nil
		}
		if len(value) == 0 {
			return Fail(MsgRequired), nil
		}
		return Pass(), nil

	case rule.Length:
		n := len([]rune(value))
		if n < d.Min {
			return Fail(fmt.Sprintf(msgTooShort, d.Min-1)), nil
		}
		if n > d.Max {
			return Fail(fmt.Sprintf(msgTooLong, d.Max+1)), nil
		}
		return Pass(), nil

	case rule.Pattern:
		return evalPattern(d, value)

	case rule.MatchField:
		other, ok := view.Lookup(d.Other)
		if !ok {
			return Result{}, fmt.Errorf("%w %q", ErrUnknownField, d.Other)
		}
		if value != other.Value().Trimmed() {
			return Fail(MsgDoesNotMatch), nil
		}
		return Pass(), nil

	case rule.RadioGroupRequired:
		n, err := countChecked(view, d.Group, field.KindRadio)
		if err != nil {
			return Result{}, err
		}
		if n != 1 {
			return Fail(MsgRequired), nil
		}
		return Pass(), nil

	case rule.CheckboxGroupCount:
		n, err := countChecked(view, d.Group, field.KindCheckbox)
		if err != nil {
			return Result{}, err
		}
		switch {
		case n == 0 && d.Min > 0:
			return Fail(MsgRequired), nil
		case n < d.Min:
			return Fail(fmt.Sprintf(msgSelectAtLeast, d.Min)), nil
		case n > d.Max:
			return Fail(fmt.Sprintf(msgSelectAtMost, d.Max)), nil
		}
		return Pass(), nil

	case rule.SelectRequired:
		if src.Kind() != field.KindSelect {
			return Result{}, fmt.Errorf("%w: %s on %s input %q", field.ErrKindMismatch, d, src.Kind(), src.Name())
		}
		if src.Value().SelectedIndex == 0 {
			return Fail(MsgRequired), nil
		}
		return Pass(), nil

	case rule.SelectAlwaysValid:
		return Pass(), nil

	case rule.EitherOr:
		return evalEitherOr(d, value, view)

	default:
		return Result{}, fmt.Errorf("%w %T", ErrUnsupportedRule, d)
	}
}

func evalPattern(d rule.Pattern, value string) (Result, error) {
	if d.Preset == pattern.Email && value == "" {
		// emptiness belongs to `req`
		return Pass(), nil
	}
	ok, err := pattern.Match(d.Preset, value)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return Pass(), nil
	}
	if d.Preset == pattern.Email {
		return Fail(MsgInvalidEmail), nil
	}
	return Fail(MsgInvalidChars), nil
}

// evalEitherOr fails when both inputs are empty, or when the other input is
// filled in but was invalid after the previous pass.
func evalEitherOr(d rule.EitherOr, value string, view View) (Result, error) {
	other, ok := view.Lookup(d.Other)
	if !ok {
		return Result{}, fmt.Errorf("%w %q", ErrUnknownField, d.Other)
	}
	otherValid, ok := view.Validity(d.Other)
	if !ok {
		return Result{}, fmt.Errorf("%w %q has no directive", ErrUnknownField, d.Other)
	}
	otherLen := len(other.Value().Trimmed())
	if (len(value) == 0 && otherLen == 0) || (otherLen != 0 && !otherValid) {
		return Fail(fmt.Sprintf(msgEitherOr, d.Label)), nil
	}
	return Pass(), nil
}

func countChecked(view View, group string, kind field.Kind) (int, error) {
	members := view.Members(group)
	if len(members) == 0 {
		return 0, fmt.Errorf("%w %q", field.ErrUnknownGroup, group)
	}
	n := 0
	for _, m := range members {
		if m.Kind() != kind {
			return 0, fmt.Errorf("%w: member %q of group %q is %s", field.ErrKindMismatch, m.Name(), group, m.Kind())
		}
		if m.Value().Checked {
			n++
		}
	}
	return n, nil
}

// EvaluateField runs rules in order and returns the first failure, or a
// valid result when every rule passes. An error stops the fold and is
// annotated with the offending rule.
func EvaluateField(e Evaluator, src field.Source, rules rule.Set, view View) (Result, error) {
	for _, d := range rules {
		res, err := e.Evaluate(d, src, view)
		if err != nil {
			return Result{}, fmt.Errorf("evaluator: field %q rule %s: %w", src.Name(), d, err)
		}
		if !res.Valid {
			return res, nil
		}
	}
	return Pass(), nil
}
