package storage

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrConflict = errors.New("resource conflict (e.g., duplicate key)")

// ErrReferenced reports a write that points at a row that does not exist.
var ErrReferenced = errors.New("referenced resource does not exist")
