// Package openapi exposes the loader and parser contracts used to derive form
// definitions from OpenAPI request bodies. Implementations live under
// internal/openapi so kin-openapi types stay out of the public API.
package openapi
