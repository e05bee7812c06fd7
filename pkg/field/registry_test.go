package field

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrules/pkg/rule"
)

func newSignupRegistry(t *testing.T) *Registry {
	t.Helper()

	reg := NewRegistry()
	mustAdd(t, reg, NewInput("username", KindText), "req len:5-16 regex:username")
	mustAdd(t, reg, NewInput("password", KindText), "req len:8-64")
	mustAdd(t, reg, NewInput("confirm", KindText), "req match:password")
	mustAdd(t, reg, NewInput("country", KindSelect, WithOptions("Choose...", "AU", "NZ")), "select-req")
	if _, err := reg.AddGroup("plan", KindRadio, "radio:plan"); err != nil {
		t.Fatalf("add group: %v", err)
	}
	for _, option := range []string{"basic", "pro", "team"} {
		if err := reg.AddInput(NewInput("plan."+option, KindRadio, WithGroup("plan"), WithOption(option))); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	return reg
}

func mustAdd(t *testing.T, reg *Registry, src Source, directive string) *Field {
	t.Helper()
	f, err := reg.Add(src, directive)
	if err != nil {
		t.Fatalf("add %s: %v", src.Name(), err)
	}
	return f
}

func TestRegistryOrderAndLookup(t *testing.T) {
	t.Parallel()

	reg := newSignupRegistry(t)

	var names []string
	for _, f := range reg.Fields() {
		names = append(names, f.Name())
	}
	want := []string{"username", "password", "confirm", "country", "plan"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if reg.Len() != 5 {
		t.Fatalf("expected 5 fields, got %d", reg.Len())
	}

	if _, ok := reg.Field("plan.basic"); ok {
		t.Fatalf("members without a directive must not be fields")
	}
	if _, ok := reg.Input("plan.basic"); !ok {
		t.Fatalf("members must be registered as inputs")
	}
	if got := len(reg.Members("plan")); got != 3 {
		t.Fatalf("expected 3 plan members, got %d", got)
	}

	f, _ := reg.Field("username")
	if f.Status() != StatusUnvalidated || f.Valid() {
		t.Fatalf("new fields start unvalidated and not valid")
	}
	if diff := cmp.Diff(rule.MustParse("req len:5-16 regex:username"), f.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRejectsDuplicatesAndMalformedDirectives(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	mustAdd(t, reg, NewInput("email", KindText), "req")

	if _, err := reg.Add(NewInput("email", KindText), "req"); !errors.Is(err, ErrDuplicateField) {
		t.Fatalf("expected ErrDuplicateField, got %v", err)
	}
	if _, err := reg.Add(NewInput("phone", KindText), "req lenn:1-2"); !errors.Is(err, rule.ErrMalformedDirective) {
		t.Fatalf("expected ErrMalformedDirective, got %v", err)
	}
	if _, ok := reg.Input("phone"); ok {
		t.Fatalf("a field with a malformed directive must not be registered")
	}
	if err := reg.AddInput(NewInput("x", Kind("slider"))); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch for unknown kind, got %v", err)
	}
}

func TestRegistryVerify(t *testing.T) {
	t.Parallel()

	if err := newSignupRegistry(t).Verify(); err != nil {
		t.Fatalf("expected valid configuration, got %v", err)
	}

	reg := NewRegistry()
	mustAdd(t, reg, NewInput("confirm", KindText), "match:password")
	mustAdd(t, reg, NewInput("email", KindText), "or:phone:phone")
	mustAdd(t, reg, NewInput("topics", KindText), "checkbox:topics:1-2")
	mustAdd(t, reg, NewInput("country", KindText), "select-req")
	if err := reg.AddInput(NewInput("plan.a", KindCheckbox, WithGroup("plan"))); err != nil {
		t.Fatalf("add member: %v", err)
	}
	mustAdd(t, reg, NewInput("planner", KindText), "radio:plan")

	err := reg.Verify()
	if err == nil {
		t.Fatalf("expected configuration errors")
	}
	for _, target := range []error{ErrUnknownField, ErrUnknownGroup, ErrKindMismatch} {
		if !errors.Is(err, target) {
			t.Fatalf("expected %v in %v", target, err)
		}
	}
}

func TestRegistryRecord(t *testing.T) {
	t.Parallel()

	reg := newSignupRegistry(t)
	if err := reg.Record("username", false, "Required"); err != nil {
		t.Fatalf("record: %v", err)
	}
	f, _ := reg.Field("username")
	if f.Status() != StatusInvalid || f.Message() != "Required" || f.Valid() {
		t.Fatalf("unexpected state after invalid record: %v %q", f.Status(), f.Message())
	}
	if err := reg.Record("username", true, "ignored"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if f.Status() != StatusValid || f.Message() != "" || !f.Valid() {
		t.Fatalf("unexpected state after valid record: %v %q", f.Status(), f.Message())
	}
	if err := reg.Record("missing", true, ""); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSnapshotFreezesValidity(t *testing.T) {
	t.Parallel()

	reg := newSignupRegistry(t)
	_ = reg.Record("password", true, "")
	snap := reg.Snapshot()
	_ = reg.Record("password", false, "Required")

	valid, ok := snap.Validity("password")
	if !ok || !valid {
		t.Fatalf("snapshot should keep the validity at capture time")
	}
	if _, ok := snap.Validity("plan.basic"); ok {
		t.Fatalf("members are not validation-enabled fields")
	}

	in, _ := reg.Input("username")
	in.(*Input).SetText("live")
	src, _ := snap.Lookup("username")
	if src.Value().Text != "live" {
		t.Fatalf("snapshot values must be read live")
	}
}

func TestCheckRadioUnchecksSiblings(t *testing.T) {
	t.Parallel()

	reg := newSignupRegistry(t)
	if err := reg.Check("plan.basic", true); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := reg.Check("plan.pro", true); err != nil {
		t.Fatalf("check: %v", err)
	}

	var checked []string
	for _, m := range reg.Members("plan") {
		if m.Value().Checked {
			checked = append(checked, m.Name())
		}
	}
	if diff := cmp.Diff([]string{"plan.pro"}, checked); diff != "" {
		t.Fatalf("checked mismatch (-want +got):\n%s", diff)
	}

	group, _ := reg.Input("plan")
	if v := group.Value(); !v.Checked || v.Text != "pro" {
		t.Fatalf("group value = %+v", v)
	}

	if err := reg.Check("username", true); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func TestAssignAndValues(t *testing.T) {
	t.Parallel()

	reg := newSignupRegistry(t)
	if err := reg.AddInput(NewInput("topics.go", KindCheckbox, WithGroup("topics"), WithOption("go"))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.AddInput(NewInput("topics.rust", KindCheckbox, WithGroup("topics"), WithOption("rust"))); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.AddInput(NewInput("terms", KindCheckbox)); err != nil {
		t.Fatalf("add: %v", err)
	}

	values := map[string]any{
		"username": "gopher",
		"password": 12345678,
		"country":  "NZ",
		"plan":     "team",
		"topics":   []any{"go", "rust"},
		"terms":    true,
	}
	for name, value := range values {
		if err := reg.Assign(name, value); err != nil {
			t.Fatalf("assign %s: %v", name, err)
		}
	}

	want := map[string]any{
		"username": "gopher",
		"password": "12345678",
		"confirm":  "",
		"country":  "NZ",
		"plan":     "team",
		"topics":   []string{"go", "rust"},
		"terms":    true,
	}
	if diff := cmp.Diff(want, reg.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if err := reg.Assign("country", "FR"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := reg.Assign("nope", "x"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := reg.Assign("terms", "yes"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestAssignSelectIndex(t *testing.T) {
	t.Parallel()

	reg := newSignupRegistry(t)
	if err := reg.Assign("country", float64(2)); err != nil {
		t.Fatalf("assign index: %v", err)
	}
	if got := reg.Values()["country"]; got != "NZ" {
		t.Fatalf("country = %v, want NZ", got)
	}

	if err := reg.Assign("country", 1.7); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for a fractional index, got %v", err)
	}
	if got := reg.Values()["country"]; got != "NZ" {
		t.Fatalf("rejected index must not change the selection, got %v", got)
	}
}

func TestInputNotifiesOnlyOnChange(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	in := NewInput("name", KindText)
	mustAdd(t, reg, in, "req")

	var events []string
	reg.Watch(func(name string) { events = append(events, name) })

	in.SetText("a")
	in.SetText("a")
	in.SetText("b")

	if diff := cmp.Diff([]string{"name", "name"}, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectInput(t *testing.T) {
	t.Parallel()

	in := NewInput("size", KindSelect, WithOptions("--", "S", "M"), WithSelected(2))
	if v := in.Value(); v.SelectedIndex != 2 || v.Text != "M" {
		t.Fatalf("unexpected seeded value %+v", v)
	}
	if err := in.Select(5); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := NewInput("t", KindText).Select(0); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}
