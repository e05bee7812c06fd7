package session

import (
	"log/slog"
	"strings"

	"github.com/goliatone/go-formrules/pkg/status"
)

// OutputFormat controls how submitted values are serialised.
type OutputFormat string

const (
	OutputFormatJSON           OutputFormat = "json"
	OutputFormatFormURLEncoded OutputFormat = "form"
	OutputFormatPrettyText     OutputFormat = "pretty"
)

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLabels supplies display labels keyed by field, group or member name.
func WithLabels(labels map[string]string) Option {
	return func(s *Session) {
		for name, label := range labels {
			s.labels[name] = label
		}
	}
}

// WithTitle prints a heading before the first prompt.
func WithTitle(title string) Option {
	return func(s *Session) {
		s.title = strings.TrimSpace(title)
	}
}

// WithSubmitLabel renames the submit menu entry.
func WithSubmitLabel(label string) Option {
	return func(s *Session) {
		if label = strings.TrimSpace(label); label != "" {
			s.submitLabel = label
		}
	}
}

// WithMaskedFields prompts the named text fields without echo. By default any
// field whose name contains "password" is masked.
func WithMaskedFields(names ...string) Option {
	return func(s *Session) {
		for _, name := range names {
			s.masked[name] = true
		}
	}
}

// WithTheme sets the status line prefixes.
func WithTheme(theme status.Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
