// Package formdef loads form definitions from JSON or YAML documents and
// builds the field registries the orchestrator validates. A document holds
// any number of forms keyed by id; each form lists its fields in declaration
// order together with their validation directives.
package formdef
