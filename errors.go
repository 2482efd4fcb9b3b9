package relattice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguousMatch is matched by every *AmbiguousMatchError.
var ErrAmbiguousMatch = errors.New("relattice: ambiguous match")

// AmbiguousMatchError is returned by a strict match that found more than one
// most specific element.
type AmbiguousMatchError struct {
	Text        string
	Expressions []string
}

// Error implements the error interface.
func (e *AmbiguousMatchError) Error() string {
	quoted := make([]string, len(e.Expressions))
	for i, expr := range e.Expressions {
		quoted[i] = fmt.Sprintf("%q", expr)
	}
	return fmt.Sprintf("relattice: ambiguous match for %q: %s", e.Text, strings.Join(quoted, ", "))
}

// Is makes errors.Is(err, ErrAmbiguousMatch) true.
func (e *AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// PatternError reports an expression that does not compile.
type PatternError struct {
	Expression string
	Err        error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("relattice: invalid pattern %q: %v", e.Expression, e.Err)
}

// Unwrap returns the underlying regexp/syntax error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// InsertError reports a relation test that failed while placing an
// expression, for example a malformed repetition found during expansion.
// The lattice is left unchanged.
type InsertError struct {
	Expression string
	Existing   string
	Test       string
	Err        error
}

// Error implements the error interface.
func (e *InsertError) Error() string {
	return fmt.Sprintf("relattice: inserting %q: %s test against %q: %v",
		e.Expression, e.Test, e.Existing, e.Err)
}

// Unwrap returns the test's error.
func (e *InsertError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "relattice: invalid config: " + e.Field + ": " + e.Message
}
