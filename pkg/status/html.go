package status

import (
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

// Theme token and partial keys read from a go-theme renderer config.
const (
	TokenBaseClass    = "status.class"
	TokenSuccessClass = "status.success.class"
	TokenErrorClass   = "status.error.class"
	TokenSuccessIcon  = "status.success.icon"
	TokenErrorIcon    = "status.error.icon"
	TokenIDSuffix     = "status.id-suffix"
	PartialStatus     = "status"
)

const defaultStatusTemplate = `<span id="{{ id }}" class="{{ classes }}" style="visibility: visible">` +
	`<i class="{{ icon }}"></i> {{ text|safe }}</span>`

var defaultTokens = map[string]string{
	TokenBaseClass:    "status",
	TokenSuccessClass: "status-success",
	TokenErrorClass:   "status-error",
	TokenSuccessIcon:  "fa fa-check",
	TokenErrorIcon:    "fa fa-times",
	TokenIDSuffix:     "-status",
}

// HTMLOption configures the HTML sink.
type HTMLOption func(*htmlConfig)

type htmlConfig struct {
	template string
	tokens   map[string]string
}

// WithTemplate replaces the pongo2 template used for each status element.
// The template receives id, name, valid, classes, icon and text.
func WithTemplate(src string) HTMLOption {
	return func(cfg *htmlConfig) {
		if strings.TrimSpace(src) != "" {
			cfg.template = src
		}
	}
}

// WithThemeConfig pulls status tokens and the "status" partial from a
// resolved go-theme configuration.
func WithThemeConfig(rc *theme.RendererConfig) HTMLOption {
	return func(cfg *htmlConfig) {
		if rc == nil {
			return
		}
		for key, value := range rc.Tokens {
			if strings.HasPrefix(key, "status.") && strings.TrimSpace(value) != "" {
				cfg.tokens[key] = value
			}
		}
		if partial := strings.TrimSpace(rc.Partials[PartialStatus]); partial != "" {
			cfg.template = partial
		}
	}
}

// WithToken overrides a single token.
func WithToken(key, value string) HTMLOption {
	return func(cfg *htmlConfig) {
		cfg.tokens[key] = value
	}
}

// HTML renders each status into an HTML fragment, the element a page would
// swap next to the input. Messages are sanitised before rendering.
type HTML struct {
	mu     sync.Mutex
	tpl    *pongo2.Template
	policy *bluemonday.Policy
	tokens map[string]string
	markup map[string]string
	order  []string
	err    error
}

// NewHTML compiles the status template.
func NewHTML(options ...HTMLOption) (*HTML, error) {
	cfg := &htmlConfig{
		template: defaultStatusTemplate,
		tokens:   make(map[string]string, len(defaultTokens)),
	}
	for key, value := range defaultTokens {
		cfg.tokens[key] = value
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	tpl, err := pongo2.FromString(cfg.template)
	if err != nil {
		return nil, fmt.Errorf("status: parse template: %w", err)
	}

	return &HTML{
		tpl:    tpl,
		policy: bluemonday.StrictPolicy(),
		tokens: cfg.tokens,
		markup: make(map[string]string),
	}, nil
}

// Status renders the element for name and stores it.
func (h *HTML) Status(name string, valid bool, message string) {
	text, stateClass, icon := message, h.tokens[TokenErrorClass], h.tokens[TokenErrorIcon]
	if valid {
		text, stateClass, icon = SuccessText, h.tokens[TokenSuccessClass], h.tokens[TokenSuccessIcon]
	}

	out, err := h.tpl.Execute(pongo2.Context{
		"id":      name + h.tokens[TokenIDSuffix],
		"name":    name,
		"valid":   valid,
		"classes": strings.TrimSpace(h.tokens[TokenBaseClass] + " " + stateClass),
		"icon":    icon,
		"text":    h.policy.Sanitize(text),
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		if h.err == nil {
			h.err = fmt.Errorf("status: render %q: %w", name, err)
		}
		return
	}
	if _, seen := h.markup[name]; !seen {
		h.order = append(h.order, name)
	}
	h.markup[name] = out
}

// Markup returns the latest fragment rendered for name.
func (h *HTML) Markup(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.markup[name]
}

// Render joins the latest fragment of every field, in first-seen order.
func (h *HTML) Render() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	parts := make([]string, 0, len(h.order))
	for _, name := range h.order {
		parts = append(parts, h.markup[name])
	}
	return strings.Join(parts, "\n")
}

// Err returns the first rendering error, if any.
func (h *HTML) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
