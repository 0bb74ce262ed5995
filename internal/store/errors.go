package store

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error taxonomy. Store functions classify driver failures at the point of
// occurrence so callers can branch with errors.Is instead of matching
// message text.
var (
	// ErrNotFound is returned when the referenced row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned on unique-key collisions (item/tag/location
	// names, session ids).
	ErrDuplicate = errors.New("duplicate entry")

	// ErrForeignKey is returned when an insert or update references a row
	// that does not exist (unknown tag, location, or database id).
	ErrForeignKey = errors.New("unknown referenced row")

	// ErrInUse is returned when a delete is refused because other rows still
	// reference the target.
	ErrInUse = errors.New("still referenced")

	// ErrInvalid is returned when a CHECK constraint rejects the data, e.g.
	// an item edited before it was created.
	ErrInvalid = errors.New("constraint violated")
)

// classify maps SQLite extended result codes onto the error taxonomy.
// Unrecognized errors pass through unchanged.
func classify(err error) error {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return err
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrDuplicate
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ErrForeignKey
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return ErrInvalid
	}
	return err
}
