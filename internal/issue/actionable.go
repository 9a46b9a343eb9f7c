// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// ActionableError reports a failed kit operation in terms a user can act
	// on: what was attempted, on which schema, file or property, and what to
	// try next. IssueID optionally links it to the catalogue.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("load schema").
	//		WithResource("./server.cue").
	//		WithIssue(issue.SchemaParseErrorId).
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		// Operation is a verb phrase such as "load schema".
		Operation string
		// Resource names the schema, file or property involved; may be empty.
		Resource string
		// Suggestions are printed one per line under the message.
		Suggestions []string
		// IssueID is zero when no catalogued issue applies.
		IssueID Id
		// Cause may be nil.
		Cause error
	}

	// ErrorContext accumulates the parts of an ActionableError.
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		issueID     Id
		cause       error
	}
)

// NewErrorContext starts an empty ErrorContext.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error renders "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes Cause to errors.Is and errors.As.
func (e *ActionableError) Unwrap() error { return e.Cause }

// Format renders the message with one bulleted line per suggestion. When
// verbose is set, every error in the cause chain follows, numbered from 1.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteByte('\n')
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "\n  • %s", s)
		}
	}

	if !verbose || e.Cause == nil {
		return b.String()
	}
	b.WriteString("\n\nError chain:")
	depth := 0
	for cur := e.Cause; cur != nil; cur = unwrapOne(cur) {
		depth++
		fmt.Fprintf(&b, "\n  %d. %s", depth, cur)
	}
	return b.String()
}

// unwrapOne follows single-error wraps and the first branch of joined errors.
func unwrapOne(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		if errs := u.Unwrap(); len(errs) > 0 {
			return errs[0]
		}
	}
	return nil
}

// HasSuggestions reports whether at least one suggestion is attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) != 0
}

// Issue returns the catalogued issue, or nil.
func (e *ActionableError) Issue() *Issue {
	return Get(e.IssueID)
}

// Lookup returns the catalogued issue of the outermost ActionableError in
// err's chain that names one, or nil.
func Lookup(err error) *Issue {
	var ae *ActionableError
	for errors.As(err, &ae) {
		if i := ae.Issue(); i != nil {
			return i
		}
		err = ae.Cause
	}
	return nil
}

// WithOperation sets the verb phrase, e.g. "initialize properties".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource names the schema, file or property involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion appends one hint.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	return c.WithSuggestions(sug)
}

// WithSuggestions appends hints in order.
func (c *ErrorContext) WithSuggestions(sugs ...string) *ErrorContext {
	c.suggestions = append(c.suggestions, sugs...)
	return c
}

// WithIssue links the error to a catalogued issue.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issueID = id
	return c
}

// Wrap records err as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build returns the accumulated ActionableError, or nil when no operation
// was given.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		IssueID:     c.issueID,
		Cause:       c.cause,
	}
}

// BuildError is Build returning a plain error, so that a missing operation
// yields an untyped nil rather than a nil *ActionableError.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
