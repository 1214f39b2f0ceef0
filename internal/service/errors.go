package service

import (
	"database/sql"
	"errors"
	"fmt"

	"gymapi/internal/database"
)

var (
	ErrIDRequired   = errors.New("id is required")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrReaderNil    = errors.New("reader is nil")
)

// invalid wraps ErrValidation with a message safe to show to clients.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// notFound maps a missing row onto ErrNotFound and leaves other errors alone.
func notFound(what string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

// conflictOn maps a unique violation onto ErrConflict.
func conflictOn(what string, err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return err
}
