package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrNotAuthorized is returned when a mutating operation runs without an admin identity.
var ErrNotAuthorized = errors.New("not authorized")

// ValidationError collects every problem found in a request.
type ValidationError struct {
	Problems *multierror.Error
}

func (e *ValidationError) Error() string {
	if e.Problems == nil {
		return "invalid request"
	}
	msgs := make([]string, 0, len(e.Problems.Errors))
	for _, err := range e.Problems.Errors {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Problems.ErrorOrNil()
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	Key      string
	Value    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with %s %s not found", e.Resource, e.Key, e.Value)
}

// InsufficientAvailabilityError is returned when an order asks for more units than remain.
type InsufficientAvailabilityError struct {
	ItemID    int64
	Name      string
	Requested int
	Available int
}

func (e *InsufficientAvailabilityError) Error() string {
	return fmt.Sprintf("only %d of %q (item %d) available, %d requested", e.Available, e.Name, e.ItemID, e.Requested)
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type validator struct {
	problems *multierror.Error
}

func (v *validator) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.addf("%s is required", field)
	}
}

func (v *validator) addf(format string, args ...any) {
	v.problems = multierror.Append(v.problems, fmt.Errorf(format, args...))
}

func (v *validator) err() error {
	if v.problems == nil {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}
