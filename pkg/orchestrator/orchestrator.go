package orchestrator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-formrules/pkg/evaluator"
	"github.com/goliatone/go-formrules/pkg/field"
	"github.com/goliatone/go-formrules/pkg/status"
)

// MsgInvalidConfiguration is shown on a field whose rules could not be
// evaluated because of a configuration error.
const MsgInvalidConfiguration = "Invalid configuration"

var (
	// ErrReentrant is returned when a pass is requested while another pass is
	// still running.
	ErrReentrant = errors.New("orchestrator: validation pass already running")
	// ErrUnknownField is returned by ValidateField for names without rules.
	ErrUnknownField = errors.New("orchestrator: unknown field")
	// ErrUnsettled is returned by Settle when outcomes keep changing.
	ErrUnsettled = errors.New("orchestrator: validity did not settle")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStatusSink receives every per-field result.
func WithStatusSink(sink status.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithSubmitGate receives the aggregate validity after every pass.
func WithSubmitGate(gate status.Gate) Option {
	return func(o *Orchestrator) {
		o.gate = gate
	}
}

// WithLogger injects a structured logger. Configuration errors are logged at
// error level, pass summaries at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithEvaluator replaces the built-in rule engine.
func WithEvaluator(e evaluator.Evaluator) Option {
	return func(o *Orchestrator) {
		o.evaluator = e
	}
}

// Orchestrator owns the validation lifecycle of one form.
type Orchestrator struct {
	registry  *field.Registry
	evaluator evaluator.Evaluator
	sink      status.Sink
	gate      status.Gate
	logger    *slog.Logger

	running atomic.Bool
	start   sync.Once

	mu   sync.RWMutex
	last Report
}

// New constructs an Orchestrator for registry. The registry's cross-field
// references are verified here so a broken form fails before the first pass.
func New(registry *field.Registry, options ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("orchestrator: registry is required")
	}
	o := &Orchestrator{registry: registry}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()

	if err := registry.Verify(); err != nil {
		return nil, fmt.Errorf("orchestrator: verify registry: %w", err)
	}
	return o, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.evaluator == nil {
		o.evaluator = evaluator.New()
	}
	if o.sink == nil {
		o.sink = status.Nop
	}
	if o.gate == nil {
		o.gate = status.GateFunc(func(bool) {})
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Registry returns the registry the orchestrator validates.
func (o *Orchestrator) Registry() *field.Registry {
	return o.registry
}

// Start runs the initial pass. Later calls return the last report without
// running again.
func (o *Orchestrator) Start() (Report, error) {
	var (
		report Report
		err    error
		ran    bool
	)
	o.start.Do(func() {
		ran = true
		report, err = o.ValidateAll()
	})
	if !ran {
		return o.Last(), nil
	}
	return report, err
}

// Attach subscribes the orchestrator to change notifications of every
// registered input that publishes them.
func (o *Orchestrator) Attach() {
	o.registry.Watch(o.Notify)
}

// Notify is the change handler: any change re-validates the whole form.
// Notifications that arrive during a pass are dropped and logged.
func (o *Orchestrator) Notify(name string) {
	if _, err := o.ValidateAll(); err != nil {
		o.logger.Warn("validation pass skipped", "trigger", name, "error", err)
	}
}

// ValidateField re-validates the form and returns the outcome for name.
// A full pass runs because other fields may depend on name.
func (o *Orchestrator) ValidateField(name string) (FieldReport, error) {
	if _, ok := o.registry.Field(name); !ok {
		return FieldReport{}, fmt.Errorf("%w %q", ErrUnknownField, name)
	}
	report, err := o.ValidateAll()
	if err != nil {
		return FieldReport{}, err
	}
	fr, _ := report.Field(name)
	return fr, nil
}

// ValidateAll runs one pass over every validated field in declaration order.
// Cross-field validity reads see the state of the previous pass; values are
// read live. A configuration error on one field marks that field invalid and
// is collected in the report without stopping its siblings.
func (o *Orchestrator) ValidateAll() (Report, error) {
	if !o.running.CompareAndSwap(false, true) {
		return Report{}, ErrReentrant
	}
	defer o.running.Store(false)

	view := o.registry.Snapshot()
	fields := o.registry.Fields()
	report := Report{
		Fields: make([]FieldReport, 0, len(fields)),
		Valid:  true,
	}

	for _, f := range fields {
		fr := FieldReport{Name: f.Name()}
		res, err := evaluator.EvaluateField(o.evaluator, f.Source, f.Rules, view)
		if err != nil {
			fr.Err = err
			fr.Message = MsgInvalidConfiguration
			report.ConfigErrors = append(report.ConfigErrors, err)
			o.logger.Error("field configuration error", "field", fr.Name, "directive", f.Directive, "error", err)
		} else {
			fr.Valid = res.Valid
			fr.Message = res.Message
		}

		if err := o.registry.Record(fr.Name, fr.Valid, fr.Message); err != nil {
			return Report{}, fmt.Errorf("orchestrator: record %q: %w", fr.Name, err)
		}
		fr.Status = f.Status()
		o.sink.Status(fr.Name, fr.Valid, fr.Message)

		report.Valid = report.Valid && fr.Valid
		report.Fields = append(report.Fields, fr)
	}

	o.gate.SetEnabled(report.Valid)

	o.mu.Lock()
	o.last = report
	o.mu.Unlock()

	o.logger.Debug("validation pass complete",
		"fields", len(report.Fields),
		"valid", report.Valid,
		"config_errors", len(report.ConfigErrors),
	)
	return report, nil
}

// Settle runs passes until two consecutive passes agree on every field's
// outcome, so cross-field rules that read the previous pass see current
// validity. A dependency chain can need one pass per field, which bounds the
// number of passes. Every pass reaches the sink and the gate.
func (o *Orchestrator) Settle() (Report, error) {
	prev, err := o.ValidateAll()
	if err != nil {
		return Report{}, err
	}
	for i := 0; i < o.registry.Len(); i++ {
		next, err := o.ValidateAll()
		if err != nil {
			return Report{}, err
		}
		if sameOutcome(prev, next) {
			return next, nil
		}
		prev = next
	}
	return prev, ErrUnsettled
}

// Valid reports the aggregate validity of the last pass. It is false before
// the first pass.
func (o *Orchestrator) Valid() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.last.Fields != nil && o.last.Valid
}

// Last returns the report of the most recent pass.
func (o *Orchestrator) Last() Report {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.last.clone()
}
