package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValueSource identifies where a variable's value was attempted to be read
// from (environment table or secret provider).
type ValueSource string

const (
	SourceEnv      ValueSource = "env"
	SourceProvider ValueSource = "provider"
)

// ParseTarget names the representation a raw value failed to parse as.
type ParseTarget string

const (
	TargetJSON    ParseTarget = "JSON"
	TargetNumber  ParseTarget = "number"
	TargetDate    ParseTarget = "date"
	TargetBoolean ParseTarget = "boolean"
)

// loaderError marks every error produced by snapshot construction so that
// collaborators can tell loader failures apart from their own recoverable
// ones. All exported error types in this package implement it.
type loaderError interface {
	error
	loaderError()
}

// IsLoaderError reports whether err, or any error it wraps, originated from
// snapshot construction. The tree aggregator uses this to decide which
// source failures are fatal rather than skippable.
func IsLoaderError(err error) bool {
	var le loaderError
	return errors.As(err, &le)
}

// UnsupportedKindError reports a rule whose kind is outside the supported
// set, including the zero value when a schema entry never declared one. It
// is raised regardless of whether the variable is set.
type UnsupportedKindError struct {
	Var  string
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("config: %s: unsupported kind %q", e.Var, e.Kind.String())
}

func (*UnsupportedKindError) loaderError() {}

// AttemptError captures one failed attempt to resolve a variable from a
// source while deciding whether it is missing.
type AttemptError struct {
	Source     ValueSource
	Identifier string
	Err        error
}

func (a AttemptError) Error() string {
	if a.Identifier == "" {
		return fmt.Sprintf("%s: %v", a.Source, a.Err)
	}
	return fmt.Sprintf("%s (%s): %v", a.Source, a.Identifier, a.Err)
}

// MissingError reports a required variable that was never populated. When
// provider fallback was configured for the variable, Attempts records why
// each source came up empty.
type MissingError struct {
	Var      string
	Attempts []AttemptError
}

func (e *MissingError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("config: %s: required variable is not set", e.Var)
	}
	parts := make([]string, len(e.Attempts))
	for i, att := range e.Attempts {
		parts[i] = att.Error()
	}
	return fmt.Sprintf("config: %s: required variable is not set (%s)", e.Var, strings.Join(parts, "; "))
}

func (*MissingError) loaderError() {}

// ParseError reports a raw value that could not be converted to its rule's
// kind. Target distinguishes the JSON, number, date, and boolean parse
// paths; bracket-delimited arrays and object/any values both report
// TargetJSON.
type ParseError struct {
	Var    string
	Target ParseTarget
	Raw    string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("config: %s: cannot parse %q as %s", e.Var, e.Raw, e.Target)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (*ParseError) loaderError() {}

// Violation is a single constraint failure inside a cast value.
type Violation struct {
	// Path locates the failing value within the variable: empty for the
	// value itself, an element index or object key otherwise, joined with
	// dots when nested.
	Path string

	// Value is the cast (not raw) value found at Path.
	Value any

	// Message is a human-readable description naming the value and the
	// constraint it failed.
	Message string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// ValidationError reports a cast value that failed its rule's constraints.
// It carries one violation per failed constraint.
type ValidationError struct {
	Var        string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("config: %s: validation failed: %s", e.Var, strings.Join(parts, "; "))
}

func (*ValidationError) loaderError() {}
