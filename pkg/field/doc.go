// Package field models the inputs of a form and the registry of
// validation-enabled fields the engine evaluates.
//
// Inputs are supplied by the widget layer through the Source interface. A
// Registry keeps every input (so group and match rules can read members that
// carry no directive of their own) and, in declaration order, the fields that
// have a directive attached. Only the orchestrator records validation outcomes
// on a Field; evaluators read the registry through its Snapshot.
package field
