package rule

import (
	"fmt"
	"strings"
)

// Kind is the directive name of a rule.
type Kind string

const (
	KindRequired       Kind = "req"
	KindLength         Kind = "len"
	KindPattern        Kind = "regex"
	KindMatch          Kind = "match"
	KindRadio          Kind = "radio"
	KindCheckbox       Kind = "checkbox"
	KindSelectRequired Kind = "select-req"
	KindSelect         Kind = "select"
	KindEitherOr       Kind = "or"
)

// Descriptor is one parsed rule. The concrete types below are the only
// implementations; evaluators switch over them exhaustively.
type Descriptor interface {
	Kind() Kind
	// String renders the descriptor back into its directive token.
	String() string
}

// Required fails when the trimmed value is empty.
type Required struct{}

// Length bounds the trimmed value length to [Min, Max].
type Length struct {
	Min int
	Max int
}

// Pattern checks the trimmed value against a named preset.
type Pattern struct {
	Preset string
}

// MatchField requires the value to equal another input's value.
type MatchField struct {
	Other string
}

// RadioGroupRequired requires exactly one checked member in Group.
type RadioGroupRequired struct {
	Group string
}

// CheckboxGroupCount bounds the number of checked members in Group.
type CheckboxGroupCount struct {
	Group string
	Min   int
	Max   int
}

// SelectRequired fails while the placeholder option (index 0) is selected.
type SelectRequired struct{}

// SelectAlwaysValid always passes; it keeps a select's status refreshed.
type SelectAlwaysValid struct{}

// EitherOr requires this field or Other to be filled in, and Other to be
// valid when it is filled in. Label names Other in the failure message.
type EitherOr struct {
	Other string
	Label string
}

func (Required) Kind() Kind           { return KindRequired }
func (Length) Kind() Kind             { return KindLength }
func (Pattern) Kind() Kind            { return KindPattern }
func (MatchField) Kind() Kind         { return KindMatch }
func (RadioGroupRequired) Kind() Kind { return KindRadio }
func (CheckboxGroupCount) Kind() Kind { return KindCheckbox }
func (SelectRequired) Kind() Kind     { return KindSelectRequired }
func (SelectAlwaysValid) Kind() Kind  { return KindSelect }
func (EitherOr) Kind() Kind           { return KindEitherOr }

func (Required) String() string { return string(KindRequired) }

func (r Length) String() string {
	return fmt.Sprintf("%s:%d-%d", KindLength, r.Min, r.Max)
}

func (r Pattern) String() string { return string(KindPattern) + ":" + r.Preset }

func (r MatchField) String() string { return string(KindMatch) + ":" + r.Other }

func (r RadioGroupRequired) String() string { return string(KindRadio) + ":" + r.Group }

func (r CheckboxGroupCount) String() string {
	return fmt.Sprintf("%s:%s:%d-%d", KindCheckbox, r.Group, r.Min, r.Max)
}

func (SelectRequired) String() string    { return string(KindSelectRequired) }
func (SelectAlwaysValid) String() string { return string(KindSelect) }

func (r EitherOr) String() string {
	return string(KindEitherOr) + ":" + r.Other + ":" + r.Label
}

// Set is the ordered list of rules attached to one field.
type Set []Descriptor

// String renders the set as a canonical directive.
func (s Set) String() string {
	tokens := make([]string, 0, len(s))
	for _, d := range s {
		if d == nil {
			continue
		}
		tokens = append(tokens, d.String())
	}
	return strings.Join(tokens, " ")
}

// Has reports whether the set contains a rule of the given kind.
func (s Set) Has(kind Kind) bool {
	for _, d := range s {
		if d != nil && d.Kind() == kind {
			return true
		}
	}
	return false
}

// RefKind distinguishes the two kinds of cross-field references.
type RefKind string

const (
	RefField RefKind = "field"
	RefGroup RefKind = "group"
)

// Reference names another input or group a rule reads during evaluation.
type Reference struct {
	Kind RefKind
	Name string
	// Rule is the referencing descriptor.
	Rule Descriptor
}

// References lists the cross-field references of the set in rule order.
func (s Set) References() []Reference {
	var refs []Reference
	for _, d := range s {
		switch r := d.(type) {
		case MatchField:
			refs = append(refs, Reference{Kind: RefField, Name: r.Other, Rule: r})
		case EitherOr:
			refs = append(refs, Reference{Kind: RefField, Name: r.Other, Rule: r})
		case RadioGroupRequired:
			refs = append(refs, Reference{Kind: RefGroup, Name: r.Group, Rule: r})
		case CheckboxGroupCount:
			refs = append(refs, Reference{Kind: RefGroup, Name: r.Group, Rule: r})
		}
	}
	return refs
}
