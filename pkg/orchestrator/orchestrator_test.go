package orchestrator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formrules/pkg/evaluator"
	"github.com/goliatone/go-formrules/pkg/field"
	"github.com/goliatone/go-formrules/pkg/orchestrator"
	"github.com/goliatone/go-formrules/pkg/rule"
	"github.com/goliatone/go-formrules/pkg/status"
)

type signupForm struct {
	registry *field.Registry
	username *field.Input
	password *field.Input
	confirm  *field.Input
	plans    []*field.Input
	country  *field.Input
}

func newSignupForm(t *testing.T) signupForm {
	t.Helper()

	reg := field.NewRegistry()
	form := signupForm{
		registry: reg,
		username: field.NewInput("username", field.KindText),
		password: field.NewInput("password", field.KindText),
		confirm:  field.NewInput("confirm", field.KindText),
		country:  field.NewInput("country", field.KindSelect, field.WithOptions("", "es", "us")),
	}
	mustAdd(t, reg, form.username, "req len:5-16 regex:username")
	mustAdd(t, reg, form.password, "req len:8-64")
	mustAdd(t, reg, form.confirm, "req match:password")
	for _, option := range []string{"basic", "pro", "team"} {
		in := field.NewInput("plan."+option, field.KindRadio, field.WithGroup("plan"), field.WithOption(option))
		if err := reg.AddInput(in); err != nil {
			t.Fatalf("add %s: %v", in.Name(), err)
		}
		form.plans = append(form.plans, in)
	}
	if _, err := reg.AddGroup("plan", field.KindRadio, "radio:plan"); err != nil {
		t.Fatalf("add group: %v", err)
	}
	mustAdd(t, reg, form.country, "select-req")
	return form
}

func (f signupForm) fill() {
	f.username.SetText("gopher_01")
	f.password.SetText("correct horse")
	f.confirm.SetText("correct horse")
	f.plans[1].SetChecked(true)
	_ = f.country.Select(1)
}

func mustAdd(t *testing.T, reg *field.Registry, in *field.Input, directive string) {
	t.Helper()
	if _, err := reg.Add(in, directive); err != nil {
		t.Fatalf("add %s: %v", in.Name(), err)
	}
}

func mustNew(t *testing.T, reg *field.Registry, options ...orchestrator.Option) *orchestrator.Orchestrator {
	t.Helper()
	o, err := orchestrator.New(reg, options...)
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func TestValidateAll_EmptyForm(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	rec := status.NewRecorder()
	var gate status.Button
	o := mustNew(t, form.registry, orchestrator.WithStatusSink(rec), orchestrator.WithSubmitGate(&gate))

	report, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.Valid || o.Valid() {
		t.Fatalf("empty form must not be valid")
	}
	if !gate.Disabled() {
		t.Fatalf("submit should stay disabled")
	}

	want := []status.Entry{
		{Name: "username", Message: "Required"},
		{Name: "password", Message: "Required"},
		{Name: "confirm", Message: "Required"},
		{Name: "plan", Message: "Required"},
		{Name: "country", Message: "Required"},
	}
	if diff := cmp.Diff(want, rec.Entries()); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAll_ExactlyOneOutcomePerField(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	form.username.SetText("bob")
	form.password.SetText("correct horse")
	form.confirm.SetText("correct horsE")
	o := mustNew(t, form.registry)

	report, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, fr := range report.Fields {
		switch {
		case fr.Valid && fr.Message != "":
			t.Fatalf("%s is valid but carries %q", fr.Name, fr.Message)
		case !fr.Valid && fr.Message == "":
			t.Fatalf("%s is invalid without a message", fr.Name)
		}
		f, _ := form.registry.Field(fr.Name)
		wantStatus := field.StatusInvalid
		if fr.Valid {
			wantStatus = field.StatusValid
		}
		if f.Status() != wantStatus || fr.Status != wantStatus {
			t.Fatalf("%s status = %s, want %s", fr.Name, f.Status(), wantStatus)
		}
	}

	got := map[string]string{}
	for _, fr := range report.Invalid() {
		got[fr.Name] = fr.Message
	}
	want := map[string]string{
		"username": "Must be longer than 4 characters",
		"confirm":  "Does not match",
		"plan":     "Required",
		"country":  "Required",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAll_AggregateFlips(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	form.fill()
	var gate status.Button
	o := mustNew(t, form.registry, orchestrator.WithSubmitGate(&gate))

	report, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !report.Valid || !o.Valid() || gate.Disabled() {
		t.Fatalf("filled form should be valid, invalid fields: %+v", report.Invalid())
	}

	form.confirm.SetText("something else")
	report, err = o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.Valid || o.Valid() || !gate.Disabled() {
		t.Fatalf("one invalid field must flip the aggregate")
	}
	if got := len(report.Invalid()); got != 1 {
		t.Fatalf("expected a single invalid field, got %d", got)
	}
}

func TestValidateAll_RequiredCheckboxOpensGate(t *testing.T) {
	t.Parallel()

	reg := field.NewRegistry()
	terms := field.NewInput("terms", field.KindCheckbox)
	if _, err := reg.Add(terms, "req"); err != nil {
		t.Fatalf("add: %v", err)
	}
	var gate status.Button
	o := mustNew(t, reg, orchestrator.WithSubmitGate(&gate))

	report, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if report.Valid || !gate.Disabled() {
		t.Fatalf("unchecked terms must keep the gate closed")
	}

	terms.SetChecked(true)
	report, err = o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	fr, _ := report.Field("terms")
	if !fr.Valid || fr.Status != field.StatusValid || gate.Disabled() {
		t.Fatalf("checked terms should pass, got %+v", fr)
	}
}

func TestValidateAll_Idempotent(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	form.username.SetText("gopher")
	form.confirm.SetText("nope")
	form.plans[0].SetChecked(true)
	o := mustNew(t, form.registry)

	first, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	second, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(first, second, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("second pass differs (-first +second):\n%s", diff)
	}
}

func contactForm(t *testing.T) (*field.Registry, *field.Input, *field.Input) {
	t.Helper()

	reg := field.NewRegistry()
	email := field.NewInput("email", field.KindText)
	phone := field.NewInput("phone", field.KindText)
	mustAdd(t, reg, email, "regex:email or:phone:phone")
	mustAdd(t, reg, phone, "regex:phone")
	return reg, email, phone
}

func TestValidateAll_EitherOrReadsPreviousPass(t *testing.T) {
	t.Parallel()

	reg, _, phone := contactForm(t)
	o := mustNew(t, reg)
	msg := "Either this or phone must be filled in"

	report, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if fr, _ := report.Field("email"); fr.Valid || fr.Message != msg {
		t.Fatalf("both empty: got %+v", fr)
	}

	phone.SetText("abc")
	if _, err := o.ValidateAll(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	phone.SetText("555 1234")

	// phone was invalid after the previous pass, so email still fails once.
	report, err = o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if fr, _ := report.Field("email"); fr.Valid {
		t.Fatalf("email should lag one pass behind phone")
	}
	if fr, _ := report.Field("phone"); !fr.Valid {
		t.Fatalf("phone should be valid, got %q", fr.Message)
	}

	report, err = o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !report.Valid {
		t.Fatalf("form should settle on the next pass, got %+v", report.Invalid())
	}

	again, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if diff := cmp.Diff(report, again, cmpopts.EquateErrors()); diff != "" {
		t.Fatalf("settled form changed (-want +got):\n%s", diff)
	}
}

func TestValidateAll_Reentrant(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	var (
		o      *orchestrator.Orchestrator
		nested []error
	)
	sink := status.SinkFunc(func(name string, valid bool, message string) {
		_, err := o.ValidateAll()
		nested = append(nested, err)
	})
	o = mustNew(t, form.registry, orchestrator.WithStatusSink(sink))

	if _, err := o.ValidateAll(); err != nil {
		t.Fatalf("outer pass: %v", err)
	}
	if len(nested) != form.registry.Len() {
		t.Fatalf("expected %d nested attempts, got %d", form.registry.Len(), len(nested))
	}
	for _, err := range nested {
		if !errors.Is(err, orchestrator.ErrReentrant) {
			t.Fatalf("nested pass error = %v, want ErrReentrant", err)
		}
	}

	if _, err := o.ValidateAll(); err != nil {
		t.Fatalf("guard must be released after the pass: %v", err)
	}
}

func TestValidateAll_ConfigErrorIsolated(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	form.fill()
	boom := errors.New("boom")
	engine := evaluator.New()
	broken := evaluator.EvaluatorFunc(func(d rule.Descriptor, src field.Source, view evaluator.View) (evaluator.Result, error) {
		if src.Name() == "password" {
			return evaluator.Result{}, boom
		}
		return engine.Evaluate(d, src, view)
	})
	rec := status.NewRecorder()
	o := mustNew(t, form.registry, orchestrator.WithEvaluator(broken), orchestrator.WithStatusSink(rec))

	report, err := o.ValidateAll()
	if err != nil {
		t.Fatalf("a field configuration error must not fail the pass: %v", err)
	}
	if len(report.ConfigErrors) != 1 || !errors.Is(report.Err(), boom) {
		t.Fatalf("expected the config error to be collected, got %v", report.ConfigErrors)
	}
	fr, _ := report.Field("password")
	if fr.Valid || fr.Message != orchestrator.MsgInvalidConfiguration || !errors.Is(fr.Err, boom) {
		t.Fatalf("unexpected password report: %+v", fr)
	}
	if got := len(rec.Entries()); got != form.registry.Len() {
		t.Fatalf("siblings must still be reported, got %d entries", got)
	}
	if invalid := report.Invalid(); len(invalid) != 1 {
		t.Fatalf("only password should fail, got %+v", invalid)
	}
}

func TestNew_VerifiesReferences(t *testing.T) {
	t.Parallel()

	reg := field.NewRegistry()
	mustAdd(t, reg, field.NewInput("confirm", field.KindText), "match:password")
	mustAdd(t, reg, field.NewInput("topics", field.KindText), "checkbox:topics:1-3")

	_, err := orchestrator.New(reg)
	if !errors.Is(err, field.ErrUnknownField) || !errors.Is(err, field.ErrUnknownGroup) {
		t.Fatalf("expected both reference errors, got %v", err)
	}
	if _, err := orchestrator.New(nil); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestValidateField(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	form.username.SetText("this-username-is-far-too-long")
	o := mustNew(t, form.registry)

	fr, err := o.ValidateField("username")
	if err != nil {
		t.Fatalf("validate field: %v", err)
	}
	if fr.Valid || fr.Message != "Must be shorter than 17 characters" {
		t.Fatalf("unexpected result: %+v", fr)
	}
	if _, err := o.ValidateField("plan.basic"); !errors.Is(err, orchestrator.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for a member without rules, got %v", err)
	}
	if got := len(o.Last().Fields); got != form.registry.Len() {
		t.Fatalf("ValidateField should run a full pass, got %d fields", got)
	}
}

func TestStartAndAttach(t *testing.T) {
	t.Parallel()

	form := newSignupForm(t)
	rec := status.NewRecorder()
	o := mustNew(t, form.registry, orchestrator.WithStatusSink(rec))
	if o.Valid() {
		t.Fatalf("no pass has run yet")
	}

	if _, err := o.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := o.Start(); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if got, want := len(rec.Entries()), form.registry.Len(); got != want {
		t.Fatalf("Start should run once: got %d entries, want %d", got, want)
	}

	o.Attach()
	rec.Reset()
	form.username.SetText("gopher")
	last, ok := rec.Last("username")
	if !ok || !last.Valid {
		t.Fatalf("change should trigger a pass, got %+v", last)
	}

	rec.Reset()
	form.username.SetText("gopher")
	if n := len(rec.Entries()); n != 0 {
		t.Fatalf("unchanged value should not trigger a pass, got %d entries", n)
	}
}

func ExampleOrchestrator_ValidateAll() {
	reg := field.NewRegistry()
	name := field.NewInput("name", field.KindText, field.WithText("Ada"))
	_, _ = reg.Add(name, "req len:5-16")

	o, _ := orchestrator.New(reg, orchestrator.WithStatusSink(status.SinkFunc(func(n string, valid bool, msg string) {
		fmt.Println(n, valid, msg)
	})))
	_, _ = o.ValidateAll()
	// Output: name false Must be longer than 4 characters
}

func TestSettle(t *testing.T) {
	t.Parallel()

	reg, _, phone := contactForm(t)
	phone.SetText("555 1234")
	o := mustNew(t, reg)

	report, err := o.Settle()
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if !report.Valid {
		t.Fatalf("email should pass once phone's validity is known, got %+v", report.Invalid())
	}

	phone.SetText("")
	report, err = o.Settle()
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if fr, _ := report.Field("email"); fr.Valid {
		t.Fatalf("both empty must fail")
	}
}

func TestSettle_Oscillating(t *testing.T) {
	t.Parallel()

	reg := field.NewRegistry()
	a := field.NewInput("a", field.KindText, field.WithText("x"))
	b := field.NewInput("b", field.KindText, field.WithText("y"))
	mustAdd(t, reg, a, "or:b:b")
	mustAdd(t, reg, b, "or:a:a")

	// a mirrors b's previous validity and vice versa, so a pass that
	// starts with them disagreeing never converges.
	seeded := false
	engine := evaluator.New()
	flip := evaluator.EvaluatorFunc(func(d rule.Descriptor, src field.Source, view evaluator.View) (evaluator.Result, error) {
		if !seeded && src.Name() == "a" {
			return evaluator.Pass(), nil
		}
		return engine.Evaluate(d, src, view)
	})
	o := mustNew(t, reg, orchestrator.WithEvaluator(flip))
	if _, err := o.ValidateAll(); err != nil {
		t.Fatalf("seed pass: %v", err)
	}
	seeded = true

	if _, err := o.Settle(); !errors.Is(err, orchestrator.ErrUnsettled) {
		t.Fatalf("expected ErrUnsettled, got %v", err)
	}
}
