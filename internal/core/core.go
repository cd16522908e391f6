// Package core holds the page-level services shared by the CLI and the bot.
// Every call is made on behalf of an auth.Session.
package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dogjoy/miniapp/internal/auth"
)

var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNoConfirmationURL = errors.New("payment has no confirmation url")
)

// FieldError is one rejected input field.
type FieldError struct {
	Field string
	Rule  string
	Param string
}

func (e FieldError) String() string {
	switch e.Rule {
	case "required":
		return e.Field + " is required"
	case "email":
		return e.Field + " must be a valid email"
	case "max":
		return e.Field + " must be at most " + e.Param
	case "min":
		return e.Field + " must be at least " + e.Param
	}
	return e.Field + " is invalid (" + e.Rule + ")"
}

// ValidationError lists every field rejected by input validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}

func requireSession(s auth.Session) error {
	if s.UserID == "" {
		return ErrNotAuthenticated
	}
	return nil
}
