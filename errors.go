package pathweave

import (
	"fmt"
	"strings"
)

// MissingTokensError is returned by Format and Resolve when required
// tokens are unpopulated on the context. Tokens with a default formatter
// are never required. CanFormat and Validate report missing tokens instead
// of failing.
type MissingTokensError struct {
	// Template is the name of the template that could not be formatted.
	// Empty for anonymous templates.
	Template string

	// Tokens holds the missing token names in pattern order.
	Tokens []string
}

// Error implements the error interface.
func (e *MissingTokensError) Error() string {
	names := strings.Join(e.Tokens, ", ")
	if e.Template == "" {
		return fmt.Sprintf("missing required tokens: %s", names)
	}
	return fmt.Sprintf("template %q missing required tokens: %s", e.Template, names)
}

// TemplateNotFoundError is returned when an operation names a template
// that was never registered.
type TemplateNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// BaseNotFoundError is returned by RegisterWithBase when the named base
// template is not registered on the resolver.
type BaseNotFoundError struct {
	Base string
}

// Error implements the error interface.
func (e *BaseNotFoundError) Error() string {
	return fmt.Sprintf("base template %q not found", e.Base)
}

// UnknownStopTokenError is returned by CreateStructure when the StopAt
// token does not appear in the template.
type UnknownStopTokenError struct {
	// Token is the requested stop token.
	Token string

	// Available holds the template's token names in pattern order.
	Available []string
}

// Error implements the error interface.
func (e *UnknownStopTokenError) Error() string {
	return fmt.Sprintf("stop token %q not found in template, available tokens: %s",
		e.Token, strings.Join(e.Available, ", "))
}

// UnregisteredContextShapeError is returned by CompositeResolver
// operations when no resolver was registered for the context's shape.
type UnregisteredContextShapeError struct {
	// Shape is the Go type name of the context implementation.
	Shape string
}

// Error implements the error interface.
func (e *UnregisteredContextShapeError) Error() string {
	return fmt.Sprintf("no resolver registered for context shape %s", e.Shape)
}
