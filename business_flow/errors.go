package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Upload-related errors
	ErrUploadNotFound     = errors.New("upload not found")
	ErrFilenameRequired   = errors.New("filename is required")
	ErrProductsRequired   = errors.New("products list is required")
	ErrNoProductsParsed   = errors.New("no products could be parsed from the file")
	ErrFileTooLarge       = errors.New("file size exceeds the allowed limit")
	ErrUnsupportedFile    = errors.New("unsupported file type")
	ErrFileRequired       = errors.New("spreadsheet file is required")

	// Persistence errors
	ErrUploadCreationFailed    = errors.New("upload creation failed")
	ErrProductsInsertionFailed = errors.New("products insertion failed")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUploadNotFound(err error) bool {
	return errors.Is(err, ErrUploadNotFound)
}

func IsFilenameRequired(err error) bool {
	return errors.Is(err, ErrFilenameRequired)
}

func IsProductsRequired(err error) bool {
	return errors.Is(err, ErrProductsRequired)
}

func IsNoProductsParsed(err error) bool {
	return errors.Is(err, ErrNoProductsParsed)
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsUnsupportedFile(err error) bool {
	return errors.Is(err, ErrUnsupportedFile)
}

func IsFileRequired(err error) bool {
	return errors.Is(err, ErrFileRequired)
}

func IsUploadCreationFailed(err error) bool {
	return errors.Is(err, ErrUploadCreationFailed)
}

func IsProductsInsertionFailed(err error) bool {
	return errors.Is(err, ErrProductsInsertionFailed)
}

// IsValidationError reports whether the error belongs to the validation
// category (rejected before any persistence attempt), as opposed to
// not-found or internal persistence failures.
func IsValidationError(err error) bool {
	return IsFilenameRequired(err) ||
		IsProductsRequired(err) ||
		IsNoProductsParsed(err) ||
		IsFileTooLarge(err) ||
		IsUnsupportedFile(err) ||
		IsFileRequired(err)
}
