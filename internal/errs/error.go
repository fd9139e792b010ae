package errs

import (
	"errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrConflict         = errors.New("conflict")
	ErrSelfRequest      = errors.New("cannot request your own book")
)
