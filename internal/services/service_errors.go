// filepath: internal/services/service_errors.go
package services

import (
	"errors"
	"fmt"
	"pantry/internal/shared"
)

// Standard errors returned by the service layer.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

// mapRepoError translates repository errors into service errors.
func mapRepoError(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, subject)
	case errors.Is(err, shared.ErrDuplicate):
		return fmt.Errorf("%w: %s already exists", ErrConflict, subject)
	case errors.Is(err, shared.ErrInvalidReference):
		return fmt.Errorf("%w: %s references a missing record", ErrValidation, subject)
	}
	return err
}
