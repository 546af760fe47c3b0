// Package errs defines the error taxonomy shared by services and mapped to
// HTTP status codes at the handler boundary.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTxUnsupported signals that the storage deployment cannot run
// multi-document transactions. It is an internal routing signal for the
// order workflow's fallback path and is never surfaced to callers.
var ErrTxUnsupported = errors.New("storage does not support transactions")

// ValidationError reports malformed or missing input. Fields collects every
// violated constraint so callers see them all at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, "; ")
}

// Validation builds a ValidationError from one or more constraint messages.
func Validation(fields ...string) error {
	return &ValidationError{Fields: fields}
}

// Validationf builds a single-constraint ValidationError.
func Validationf(format string, args ...any) error {
	return &ValidationError{Fields: []string{fmt.Sprintf(format, args...)}}
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	if e.Ref == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with ID %s not found", e.Entity, e.Ref)
}

// NotFound builds a NotFoundError for the named entity and reference.
func NotFound(entity, ref string) error {
	return &NotFoundError{Entity: entity, Ref: ref}
}

// AuthorizationError reports a role or ownership mismatch.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// Unauthorized builds an AuthorizationError.
func Unauthorized(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// InsufficientStockError reports an order line exceeding available stock.
// The message names the item and the quantity still available.
type InsufficientStockError struct {
	ItemName  string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Not enough stock for %s. Available: %d", e.ItemName, e.Available)
}

// InsufficientStock builds an InsufficientStockError.
func InsufficientStock(name string, available int) error {
	return &InsufficientStockError{ItemName: name, Available: available}
}

// StorageError wraps a database failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for the given operation.
func Storage(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUnauthorized reports whether err is (or wraps) an AuthorizationError.
func IsUnauthorized(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

// IsInsufficientStock reports whether err is (or wraps) an
// InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ie *InsufficientStockError
	return errors.As(err, &ie)
}
