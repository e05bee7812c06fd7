package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formrules/pkg/field"
	"github.com/goliatone/go-formrules/pkg/orchestrator"
	"github.com/goliatone/go-formrules/pkg/status"
)

const quitLabel = "Quit"

// Session edits one form interactively.
type Session struct {
	orch        *orchestrator.Orchestrator
	registry    *field.Registry
	driver      PromptDriver
	labels      map[string]string
	masked      map[string]bool
	title       string
	submitLabel string
	theme       status.Theme
	logger      *slog.Logger
}

// entry is one item of the edit menu: a standalone input or a whole group.
type entry struct {
	name    string
	kind    field.Kind
	group   bool
	input   *field.Input
	members []*field.Input
}

// New constructs a Session over an orchestrator. The survey driver is used
// unless WithPromptDriver says otherwise.
func New(orch *orchestrator.Orchestrator, options ...Option) (*Session, error) {
	if orch == nil {
		return nil, errors.New("session: orchestrator is required")
	}
	s := &Session{
		orch:        orch,
		registry:    orch.Registry(),
		labels:      make(map[string]string),
		masked:      make(map[string]bool),
		submitLabel: "Submit",
		theme:       status.DefaultTheme,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s, nil
}

// Run prompts until the user submits a valid form or quits. It returns the
// submitted values.
func (s *Session) Run(ctx context.Context) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("session: context is required")
	}
	entries := s.entries()
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	if s.title != "" {
		if err := s.driver.Info(ctx, s.title); err != nil {
			return nil, err
		}
	}
	if err := s.settle(); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report := s.orch.Last()
		if err := s.driver.Info(ctx, s.statusBlock(report)); err != nil {
			return nil, err
		}

		menu := s.menu(entries, report)
		choice, err := s.driver.Select(ctx, SelectConfig{
			Message:  "Edit a field",
			Options:  menu,
			PageSize: len(menu),
		})
		if err != nil {
			return nil, err
		}

		switch {
		case choice < 0 || choice >= len(menu):
			return nil, fmt.Errorf("session: menu choice %d out of range", choice)
		case choice == len(entries) && report.Valid:
			return s.registry.Values(), nil
		case choice >= len(entries):
			return nil, ErrAborted
		}

		if err := s.edit(ctx, entries[choice]); err != nil {
			if !rejected(err) {
				return nil, err
			}
			s.logger.Warn("edit rejected", "field", entries[choice].name, "error", err)
			if infoErr := s.driver.Info(ctx, s.theme.ErrorPrefix+" "+err.Error()); infoErr != nil {
				return nil, infoErr
			}
		}
		if err := s.settle(); err != nil {
			return nil, err
		}
	}
}

// settle re-validates until cross-field outcomes agree. A form that never
// settles keeps its last pass.
func (s *Session) settle() error {
	_, err := s.orch.Settle()
	if errors.Is(err, orchestrator.ErrUnsettled) {
		s.logger.Warn("validity did not settle", "error", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: validate: %w", err)
	}
	return nil
}

// rejected reports whether err is a value the registry refused rather than a
// prompt failure.
func rejected(err error) bool {
	return errors.Is(err, field.ErrInvalidValue) ||
		errors.Is(err, field.ErrKindMismatch) ||
		errors.Is(err, field.ErrUnknownField)
}

func (s *Session) entries() []entry {
	var (
		out  []entry
		seen = make(map[string]bool)
	)
	for _, src := range s.registry.Inputs() {
		group := src.Group()
		if group == "" && len(s.registry.Members(src.Name())) > 0 {
			group = src.Name()
		}
		if group != "" {
			if seen[group] {
				continue
			}
			seen[group] = true
			e := entry{name: group, group: true}
			for _, m := range s.registry.Members(group) {
				if in, ok := m.(*field.Input); ok {
					e.kind = in.Kind()
					e.members = append(e.members, in)
				}
			}
			if len(e.members) > 0 {
				out = append(out, e)
			}
			continue
		}
		if in, ok := src.(*field.Input); ok {
			out = append(out, entry{name: in.Name(), kind: in.Kind(), input: in})
		}
	}
	return out
}

func (s *Session) menu(entries []entry, report orchestrator.Report) []string {
	out := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		label := s.label(e.name)
		if fr, ok := report.Field(e.name); ok {
			prefix := s.theme.SuccessPrefix
			if !fr.Valid {
				prefix = s.theme.ErrorPrefix
				label += " (" + fr.Message + ")"
			}
			label = prefix + " " + label
		}
		out = append(out, label)
	}
	if report.Valid {
		out = append(out, s.submitLabel)
	}
	return append(out, quitLabel)
}

func (s *Session) statusBlock(report orchestrator.Report) string {
	var buf bytes.Buffer
	w := status.NewWriter(&buf, s.theme)
	for _, fr := range report.Fields {
		w.Status(s.label(fr.Name), fr.Valid, fr.Message)
	}
	state := "form is incomplete"
	if report.Valid {
		state = "form is ready to submit"
	}
	buf.WriteString(state)
	return buf.String()
}

func (s *Session) edit(ctx context.Context, e entry) error {
	message := s.label(e.name)
	switch {
	case e.group && e.kind == field.KindRadio:
		options, current := memberOptions(e.members)
		idx, err := s.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: firstOr(current, 0)})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			return fmt.Errorf("%w: no option at %d", field.ErrInvalidValue, idx)
		}
		return s.registry.Assign(e.name, e.members[idx].Option())

	case e.group:
		options, current := memberOptions(e.members)
		picked, err := s.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: options, Defaults: current})
		if err != nil {
			return err
		}
		values := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(e.members) {
				values = append(values, e.members[idx].Option())
			}
		}
		return s.registry.Assign(e.name, values)

	case e.kind == field.KindSelect:
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      displayOptions(e.input.Options()),
			DefaultIndex: e.input.Value().SelectedIndex,
		})
		if err != nil {
			return err
		}
		return e.input.Select(idx)

	case e.kind == field.KindCheckbox || e.kind == field.KindRadio:
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: e.input.Value().Checked})
		if err != nil {
			return err
		}
		return s.registry.Check(e.name, checked)

	default:
		cfg := InputConfig{Message: message, Default: e.input.Value().Text}
		var (
			text string
			err  error
		)
		if s.isMasked(e.name) {
			text, err = s.driver.Password(ctx, cfg)
		} else {
			text, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		e.input.SetText(text)
		return nil
	}
}

func (s *Session) label(name string) string {
	if label, ok := s.labels[name]; ok && label != "" {
		return label
	}
	return name
}

func (s *Session) isMasked(name string) bool {
	if masked, ok := s.masked[name]; ok {
		return masked
	}
	return strings.Contains(strings.ToLower(name), "password")
}

func memberOptions(members []*field.Input) ([]string, []int) {
	options := make([]string, len(members))
	var current []int
	for i, m := range members {
		options[i] = m.Option()
		if options[i] == "" {
			options[i] = m.Name()
		}
		if m.Value().Checked {
			current = append(current, i)
		}
	}
	return options, current
}

// displayOptions renders an empty placeholder option visibly.
func displayOptions(options []string) []string {
	out := make([]string, len(options))
	for i, option := range options {
		if option == "" {
			option = "(choose one)"
		}
		out[i] = option
	}
	return out
}

func firstOr(values []int, fallback int) int {
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}
