package service

import (
	"errors"
	"fmt"

	"stockbook/internal/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidEntityType = errors.New("invalid entity type")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("invalid username or password")
)

// repoErr maps repository sentinels onto service errors, naming the entity.
func repoErr(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s already exists: %w", entity, ErrConflict)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
