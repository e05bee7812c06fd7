// Package pattern holds the fixed set of named presets that `regex:<name>`
// directives refer to. Every preset except email accepts the empty string so
// emptiness stays the concern of the `req` rule.
package pattern
