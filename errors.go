package legion

import (
	"fmt"
	"reflect"
)

// BorrowConflictError reports a denied column acquisition. It is always
// recoverable; the caller may retry, skip, or defer.
type BorrowConflictError struct {
	Component reflect.Type
	Write     bool
}

func (e BorrowConflictError) Error() string {
	if e.Write {
		return fmt.Sprintf("write borrow denied for component %v: column is already borrowed", e.Component)
	}
	return fmt.Sprintf("read borrow denied for component %v: column is exclusively borrowed", e.Component)
}

type ChunkFullError struct {
	Capacity int
}

func (e ChunkFullError) Error() string {
	return fmt.Sprintf("chunk is at capacity (%d)", e.Capacity)
}

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type SchemaFullError struct {
	Limit int
}

func (e SchemaFullError) Error() string {
	return fmt.Sprintf("schema at maximum registered types (%d)", e.Limit)
}

type RowOutOfRangeError struct {
	Row int
	Len int
}

func (e RowOutOfRangeError) Error() string {
	return fmt.Sprintf("row %d out of range for chunk of length %d", e.Row, e.Len)
}
