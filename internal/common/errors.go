// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors.
var (
	// Input errors.
	ErrSchema      = errors.New("schema error")
	ErrEmptyInput  = errors.New("empty input")
	ErrInvalidFile = errors.New("unsupported file type")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SchemaError reports that required semantic columns could not be located in
// a tabular input. Roles names what the caller must provide.
type SchemaError struct {
	Roles   []string
	Columns []string
}

func (e *SchemaError) Error() string {
	found := "none"
	if len(e.Columns) > 0 {
		found = strings.Join(e.Columns, ", ")
	}
	return fmt.Sprintf("could not detect %s columns (found: %s)", strings.Join(e.Roles, " and "), found)
}

// Is lets errors.Is(err, ErrSchema) match any SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// Hint is the actionable message for end users.
func (e *SchemaError) Hint() string {
	return fmt.Sprintf("Make sure your file has %s columns, for example %s.",
		strings.Join(e.Roles, " and "), exampleColumns(e.Roles))
}

func exampleColumns(roles []string) string {
	switch len(roles) {
	case 1:
		return "'" + strings.SplitN(roles[0], "/", 2)[0] + "'"
	default:
		return "'invoice_id' and 'product'"
	}
}

// NewSchemaError creates a schema error for the given roles and observed headers.
func NewSchemaError(columns []string, roles ...string) *SchemaError {
	return &SchemaError{Roles: roles, Columns: columns}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// UserMessage extracts the message meant for end users from err.
// Schema errors carry their own hint; anything else falls back to err.Error().
func UserMessage(err error) string {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Hint()
	}
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}
