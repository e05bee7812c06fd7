// Package session drives a form from the terminal. Each edit is applied to the
// field registry and followed by validation passes until cross-field outcomes
// settle; the latest statuses are printed before every prompt and submission
// is offered only while the form is valid.
package session
