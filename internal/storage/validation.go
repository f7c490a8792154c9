// Package storage provides the document stores behind the DocumentStore port.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/lifeos/internal/service"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidPath  = errors.New("invalid collection path")
	ErrClosed       = errors.New("store is closed")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePath ensures a collection path has no empty segments and an odd
// number of them (collection, doc, collection, ...).
func validatePath(path string) error {
	if err := validateString(path, "path"); err != nil {
		return err
	}
	segments := strings.Split(path, "/")
	if len(segments)%2 == 0 {
		return fmt.Errorf("%w: %q does not name a collection", ErrInvalidPath, path)
	}
	for _, seg := range segments {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, path)
		}
	}
	return nil
}

// validateFields ensures a field map was supplied.
func validateFields(fields service.Fields) error {
	if fields == nil {
		return fmt.Errorf("%w: fields", ErrNilParameter)
	}
	return nil
}

func validateWrite(ctx context.Context, path string, fields service.Fields) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePath(path); err != nil {
		return err
	}
	return validateFields(fields)
}
