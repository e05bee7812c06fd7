package orchestrator

import (
	"errors"

	"github.com/goliatone/go-formrules/pkg/field"
)

// FieldReport is the outcome of one field in a pass.
type FieldReport struct {
	Name    string
	Valid   bool
	Status  field.Status
	Message string
	// Err is set when the field's rules could not be evaluated.
	Err error
}

// Report is the outcome of a full pass.
type Report struct {
	Fields       []FieldReport
	Valid        bool
	ConfigErrors []error
}

// Field returns the report entry for name.
func (r Report) Field(name string) (FieldReport, bool) {
	for _, fr := range r.Fields {
		if fr.Name == name {
			return fr, true
		}
	}
	return FieldReport{}, false
}

// Invalid lists the entries that failed, in declaration order.
func (r Report) Invalid() []FieldReport {
	var out []FieldReport
	for _, fr := range r.Fields {
		if !fr.Valid {
			out = append(out, fr)
		}
	}
	return out
}

// Err joins the configuration errors of the pass.
func (r Report) Err() error {
	return errors.Join(r.ConfigErrors...)
}

func (r Report) clone() Report {
	out := r
	if r.Fields != nil {
		out.Fields = append([]FieldReport(nil), r.Fields...)
	}
	if r.ConfigErrors != nil {
		out.ConfigErrors = append([]error(nil), r.ConfigErrors...)
	}
	return out
}

func sameOutcome(a, b Report) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for i := range a.Fields {
		x, y := a.Fields[i], b.Fields[i]
		if x.Name != y.Name || x.Valid != y.Valid || x.Message != y.Message {
			return false
		}
	}
	return true
}
