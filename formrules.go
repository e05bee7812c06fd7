// Package formrules is the entry point for declarative form validation:
// directives are parsed into rules, inputs are collected in a registry, and
// an orchestrator keeps per-field statuses and the submit gate current.
package formrules

import (
	"context"
	"fmt"
	"io/fs"

	internalLoader "github.com/goliatone/go-formrules/internal/openapi/loader"
	internalParser "github.com/goliatone/go-formrules/internal/openapi/parser"
	"github.com/goliatone/go-formrules/pkg/field"
	"github.com/goliatone/go-formrules/pkg/formdef"
	pkgopenapi "github.com/goliatone/go-formrules/pkg/openapi"
	"github.com/goliatone/go-formrules/pkg/orchestrator"
	"github.com/goliatone/go-formrules/pkg/rule"
)

// Parse turns a directive string into an ordered rule set.
func Parse(directive string) (rule.Set, error) {
	return rule.Parse(directive)
}

// NewForm wraps a registry in an orchestrator.
func NewForm(registry *field.Registry, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(registry, options...)
}

// LoadForms parses every form definition found in fsys.
func LoadForms(fsys fs.FS) (*formdef.Store, error) {
	return formdef.LoadFS(fsys)
}

// BuildForm builds the registry of a form definition and wraps it in an
// orchestrator.
func BuildForm(def formdef.Form, options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	reg, err := def.Build()
	if err != nil {
		return nil, err
	}
	return orchestrator.New(reg, options...)
}

// NewLoader constructs an OpenAPI loader using the internal implementation.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs an OpenAPI parser backed by kin-openapi.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// FormFromOpenAPI loads src and derives the form definition of operationID's
// request body.
func FormFromOpenAPI(ctx context.Context, src pkgopenapi.Source, operationID string, options ...pkgopenapi.LoaderOption) (formdef.Form, error) {
	doc, err := NewLoader(options...).Load(ctx, src)
	if err != nil {
		return formdef.Form{}, fmt.Errorf("formrules: load %s: %w", src.Location(), err)
	}
	return FormFromDocument(ctx, doc, operationID)
}

// FormFromDocument derives a form definition from a loaded document.
func FormFromDocument(ctx context.Context, doc pkgopenapi.Document, operationID string) (formdef.Form, error) {
	ops, err := NewParser().Operations(ctx, doc)
	if err != nil {
		return formdef.Form{}, err
	}
	op, ok := ops[operationID]
	if !ok {
		return formdef.Form{}, fmt.Errorf("formrules: operation %q not found in %s", operationID, doc.Location())
	}
	return pkgopenapi.FormFromOperation(op)
}
