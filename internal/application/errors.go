package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid ID")
	ErrNoDocument       = errors.New("no document")
	ErrSearchInProgress = errors.New("search already in progress")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a lookup miss for a variable, collection or page
type NotFoundError struct {
	Kind string // "variable", "collection", "page"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DocumentError represents a failure to load the host document
type DocumentError struct {
	Path   string
	Reason string
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("cannot load document %s: %s", e.Path, e.Reason)
}

func (e *DocumentError) Is(target error) bool {
	return target == ErrNoDocument
}
