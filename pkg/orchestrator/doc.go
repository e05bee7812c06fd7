// Package orchestrator runs validation passes over a field registry: every
// validated field is evaluated in declaration order, its outcome is recorded
// and pushed to a status sink, and the aggregate form validity drives the
// submit gate.
package orchestrator
