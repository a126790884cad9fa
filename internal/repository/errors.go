package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateEntry is returned when a write violates a unique index.
	ErrDuplicateEntry = errors.New("repository: duplicate entry")
)

// translate maps gorm and driver errors onto the repository error set.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicateMessage(err):
		return fmt.Errorf("%w: %w", ErrDuplicateEntry, err)
	default:
		return err
	}
}

// isDuplicateMessage catches unique violations from drivers without an error
// translator.
func isDuplicateMessage(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}

// Page is a limit/offset window over an ordered result set.
type Page struct {
	Limit  int
	Offset int
}

// NewPage returns the window for the 1-based page number with size rows.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 30
	}
	return Page{Limit: size, Offset: (number - 1) * size}
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Limit <= 0 {
		return db
	}
	return db.Limit(p.Limit).Offset(p.Offset)
}
