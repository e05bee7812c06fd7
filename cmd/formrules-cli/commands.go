package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formrules"
	"github.com/goliatone/go-formrules/pkg/formdef"
	pkgopenapi "github.com/goliatone/go-formrules/pkg/openapi"
	"github.com/goliatone/go-formrules/pkg/orchestrator"
	"github.com/goliatone/go-formrules/pkg/session"
	"github.com/goliatone/go-formrules/pkg/status"
)

type cliEnv struct {
	cfg    config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

type formFlags struct {
	forms     string
	form      string
	openapi   string
	operation string
}

func (f *formFlags) register(flags *flag.FlagSet, cfg config) {
	flags.StringVar(&f.forms, "forms", cfg.Forms, "form definition file or directory (embedded samples if empty)")
	flags.StringVar(&f.form, "form", "signup", "form id")
	flags.StringVar(&f.openapi, "openapi", "", "OpenAPI document path or URL; derives the form from a request body")
	flags.StringVar(&f.operation, "operation", "", "OpenAPI operation id")
}

func (f *formFlags) resolve(ctx context.Context) (formdef.Form, error) {
	if f.openapi != "" {
		if f.operation == "" {
			return formdef.Form{}, errors.New("-operation is required with -openapi")
		}
		src, options, err := openapiSource(f.openapi)
		if err != nil {
			return formdef.Form{}, err
		}
		def, err := formrules.FormFromOpenAPI(ctx, src, f.operation, options...)
		if err != nil {
			return formdef.Form{}, describeLoadError(f.openapi, err)
		}
		return def, nil
	}

	store, err := loadStore(f.forms)
	if err != nil {
		return formdef.Form{}, err
	}
	form, ok := store.Form(f.form)
	if !ok {
		return formdef.Form{}, fmt.Errorf("form %q not found (have %s)", f.form, strings.Join(store.IDs(), ", "))
	}
	return form, nil
}

func loadStore(path string) (*formdef.Store, error) {
	if path == "" {
		return formdef.LoadFS(formdef.EmbeddedFS())
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return formdef.LoadFS(os.DirFS(path))
	}
	return formdef.LoadFile(path)
}

func openapiSource(raw string) (pkgopenapi.Source, []pkgopenapi.LoaderOption, error) {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		src, err := pkgopenapi.SourceFromURL(raw)
		return src, []pkgopenapi.LoaderOption{pkgopenapi.WithHTTPFallback(0)}, err
	}
	return pkgopenapi.SourceFromFile(raw), nil, nil
}

// describeLoadError turns loader failures into a short hint for the user.
// Other errors pass through unchanged.
func describeLoadError(ref string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("openapi document %s does not exist: %w", ref, err)
	case errors.Is(err, pkgopenapi.ErrUnexpectedStatus):
		return fmt.Errorf("openapi document %s could not be fetched: %w", ref, err)
	case errors.Is(err, pkgopenapi.ErrHTTPDisabled), errors.Is(err, pkgopenapi.ErrEmptyLocation):
		return fmt.Errorf("openapi document reference %q is not usable: %w", ref, err)
	default:
		return err
	}
}

func loadTheme(path string) (*theme.RendererConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var file themeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	return &theme.RendererConfig{
		Theme:    file.Theme,
		Variant:  file.Variant,
		Tokens:   file.Tokens,
		Partials: file.Partials,
	}, nil
}

// themeFile is the on-disk subset of a go-theme renderer config.
type themeFile struct {
	Theme    string            `yaml:"theme"`
	Variant  string            `yaml:"variant"`
	Tokens   map[string]string `yaml:"tokens"`
	Partials map[string]string `yaml:"partials"`
}

func runCheck(ctx context.Context, env *cliEnv, args []string) error {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	flags.SetOutput(env.stderr)
	var ff formFlags
	ff.register(flags, env.cfg)
	valuesPath := flags.String("values", "", "YAML/JSON file with field values")
	format := flags.String("format", "text", "status output: text or html")
	themePath := flags.String("theme", env.cfg.Theme, "go-theme renderer config (YAML/JSON) for html output")
	if err := flags.Parse(args); err != nil {
		return err
	}

	def, err := ff.resolve(ctx)
	if err != nil {
		return err
	}

	var (
		sink status.Sink
		html *status.HTML
	)
	switch *format {
	case "text":
		sink = status.NewWriter(env.stdout, status.DefaultTheme)
	case "html":
		rc, err := loadTheme(*themePath)
		if err != nil {
			return err
		}
		html, err = status.NewHTML(status.WithThemeConfig(rc))
		if err != nil {
			return err
		}
		sink = html
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	o, err := formrules.BuildForm(def, orchestrator.WithLogger(env.logger))
	if err != nil {
		return err
	}
	if *valuesPath != "" {
		values, err := formdef.LoadValues(*valuesPath)
		if err != nil {
			return err
		}
		if err := formdef.Apply(o.Registry(), values); err != nil {
			return err
		}
	}

	// a batch check reports the settled outcome, not the intermediate passes
	report, err := o.Settle()
	if err != nil {
		return err
	}
	for _, fr := range report.Fields {
		sink.Status(fr.Name, fr.Valid, fr.Message)
	}
	if html != nil {
		if err := html.Err(); err != nil {
			return err
		}
		fmt.Fprintln(env.stdout, html.Render())
	}
	env.logger.Info("form checked", "form", def.ID, "valid", report.Valid, "invalid", len(report.Invalid()))
	if !report.Valid {
		return errInvalid
	}
	return nil
}

func runLint(ctx context.Context, env *cliEnv, args []string) error {
	flags := flag.NewFlagSet("lint", flag.ContinueOnError)
	flags.SetOutput(env.stderr)
	forms := flags.String("forms", env.cfg.Forms, "form definition file or directory (embedded samples if empty)")
	openapiPath := flags.String("openapi", "", "lint every operation of an OpenAPI document instead")
	if err := flags.Parse(args); err != nil {
		return err
	}

	defs, err := lintTargets(ctx, *forms, *openapiPath)
	if err != nil {
		return err
	}

	failed := 0
	for _, def := range defs {
		if _, err := def.Build(); err != nil {
			failed++
			fmt.Fprintf(env.stderr, "%s (%s): %v\n", def.ID, def.Source, err)
			continue
		}
		env.logger.Debug("form ok", "form", def.ID, "fields", len(def.Fields))
	}
	fmt.Fprintf(env.stdout, "%d form(s) checked, %d with errors\n", len(defs), failed)
	if failed > 0 {
		return errInvalid
	}
	return nil
}

func lintTargets(ctx context.Context, forms, openapiPath string) ([]formdef.Form, error) {
	if openapiPath == "" {
		store, err := loadStore(forms)
		if err != nil {
			return nil, err
		}
		out := make([]formdef.Form, 0, len(store.IDs()))
		for _, id := range store.IDs() {
			def, _ := store.Form(id)
			out = append(out, def)
		}
		return out, nil
	}

	src, options, err := openapiSource(openapiPath)
	if err != nil {
		return nil, err
	}
	doc, err := formrules.NewLoader(options...).Load(ctx, src)
	if err != nil {
		return nil, describeLoadError(openapiPath, err)
	}
	ops, err := formrules.NewParser().Operations(ctx, doc)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var (
		out  []formdef.Form
		errs []error
	)
	for _, id := range ids {
		if len(ops[id].RequestBody.Properties) == 0 {
			continue
		}
		def, err := pkgopenapi.FormFromOperation(ops[id])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, def)
	}
	return out, errors.Join(errs...)
}

func runInteractive(ctx context.Context, env *cliEnv, args []string) error {
	flags := flag.NewFlagSet("interactive", flag.ContinueOnError)
	flags.SetOutput(env.stderr)
	var ff formFlags
	ff.register(flags, env.cfg)
	output := flags.String("output", env.cfg.Output, "submitted payload format: json, form or pretty")
	if err := flags.Parse(args); err != nil {
		return err
	}

	def, err := ff.resolve(ctx)
	if err != nil {
		return err
	}
	o, err := formrules.BuildForm(def, orchestrator.WithLogger(env.logger))
	if err != nil {
		return err
	}
	s, err := session.New(o,
		session.WithPromptDriver(session.NewSurveyDriver(env.stdout)),
		session.WithTitle(def.Title),
		session.WithSubmitLabel(def.Submit),
		session.WithLabels(def.Labels()),
		session.WithLogger(env.logger),
	)
	if err != nil {
		return err
	}

	values, err := s.Run(ctx)
	if err != nil {
		return err
	}
	payload, _, err := session.Encode(values, session.OutputFormat(*output))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.stdout, string(payload))
	return err
}
