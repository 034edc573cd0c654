package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUploadNotFound = errors.New("document not found")
	ErrExtraction     = errors.New("text extraction failed")
	ErrProvider       = errors.New("completion provider rejected request")
	ErrTransport      = errors.New("completion transport failure")
	ErrPersistence    = errors.New("persistence failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
