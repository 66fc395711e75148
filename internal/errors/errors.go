package errors

import (
	"errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	msg := e.Message
	for _, d := range e.Details {
		msg += fmt.Sprintf("; %s: %s", d.Field, d.Message)
	}
	return msg
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

// DuplicateBarcodeError reports a barcode already held by another product.
type DuplicateBarcodeError struct {
	Barcode string
}

func (e *DuplicateBarcodeError) Error() string {
	return fmt.Sprintf("barcode %q is already assigned to another product", e.Barcode)
}

func NewDuplicateBarcodeError(barcode string) *DuplicateBarcodeError {
	return &DuplicateBarcodeError{Barcode: barcode}
}

func IsDuplicateBarcodeError(err error) (*DuplicateBarcodeError, bool) {
	var de *DuplicateBarcodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid sale quantity %d: must be greater than zero", e.Quantity)
}

func NewInvalidQuantityError(quantity int) *InvalidQuantityError {
	return &InvalidQuantityError{Quantity: quantity}
}

func IsInvalidQuantityError(err error) (*InvalidQuantityError, bool) {
	var qe *InvalidQuantityError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}

type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func NewInsufficientStockError(productID int64, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// StorageError wraps a failure of the persistence backend.
type StorageError struct {
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{
		Message: message,
		Cause:   cause,
	}
}

func IsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsDomainError reports whether err is one of the caller-facing kinds that
// must reach the caller unchanged.
func IsDomainError(err error) bool {
	if _, ok := IsNotFoundError(err); ok {
		return true
	}
	if _, ok := IsDuplicateBarcodeError(err); ok {
		return true
	}
	if _, ok := IsInvalidQuantityError(err); ok {
		return true
	}
	if _, ok := IsInsufficientStockError(err); ok {
		return true
	}
	if _, ok := IsValidationError(err); ok {
		return true
	}
	return false
}
