// Package evaluator decides validation rules against the current state of a
// form.
//
// Evaluation is read-only: rules see field values through a View and, for
// `or:` rules, the validity of other fields as recorded by the previous pass.
// User-facing failures are Results; configuration mistakes are errors.
package evaluator
