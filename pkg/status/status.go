package status

import "sync"

// SuccessText is shown for valid fields.
const SuccessText = "Good"

// Sink renders the outcome of one field.
type Sink interface {
	Status(name string, valid bool, message string)
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(name string, valid bool, message string)

// Status delegates to the underlying function.
func (fn SinkFunc) Status(name string, valid bool, message string) {
	fn(name, valid, message)
}

// Gate enables or disables the submit affordance.
type Gate interface {
	SetEnabled(enabled bool)
}

// GateFunc adapts a function into a Gate.
type GateFunc func(enabled bool)

// SetEnabled delegates to the underlying function.
func (fn GateFunc) SetEnabled(enabled bool) {
	fn(enabled)
}

// Multi fans a status out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	filtered := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return SinkFunc(func(name string, valid bool, message string) {
		for _, s := range filtered {
			s.Status(name, valid, message)
		}
	})
}

// Nop discards every status.
var Nop Sink = SinkFunc(func(string, bool, string) {})

// Button is a Gate that remembers whether submission is disabled. It starts
// disabled, like a submit button before the first pass.
type Button struct {
	mu       sync.RWMutex
	disabled bool
	touched  bool
}

// SetEnabled records the gate state.
func (b *Button) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.disabled = !enabled
	b.touched = true
	b.mu.Unlock()
}

// Disabled reports whether submission is currently blocked.
func (b *Button) Disabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return !b.touched || b.disabled
}
