// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let the service layer tell storage
// outcomes apart without inspecting driver errors itself.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the targeted row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique column already holds the value.
var ErrDuplicate = errors.New("duplicate")

// ErrReferenced is returned when a delete is blocked by dependent rows,
// such as a material type still used by recycling logs.
var ErrReferenced = errors.New("referenced by dependent rows")

// ErrUnknownPoint is returned when a write names a drop-off point that does
// not exist.
var ErrUnknownPoint = errors.New("unknown drop-off point")

// ErrUnknownMaterial is returned when a write names a material type that
// does not exist.
var ErrUnknownMaterial = errors.New("unknown material type")

// MySQL server error numbers translated by classify.
const (
	errDupEntry         = 1062 // ER_DUP_ENTRY
	errRowIsReferenced  = 1451 // ER_ROW_IS_REFERENCED_2
	errNoReferencedRow  = 1452 // ER_NO_REFERENCED_ROW_2
	errRowIsReferenced1 = 1217 // ER_ROW_IS_REFERENCED
)

// classify maps constraint violations reported by MySQL onto sentinels.
// Other errors are returned unchanged.  A 1452 can only name one parent, so
// the caller supplies which sentinel a missing parent means.
func classify(err error, missingParent error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case errDupEntry:
		return ErrDuplicate
	case errRowIsReferenced, errRowIsReferenced1:
		return ErrReferenced
	case errNoReferencedRow:
		if missingParent != nil {
			return missingParent
		}
	}
	return err
}
