// Package apperr holds sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnknownCategory = errors.New("unknown component category")
	ErrUnknownFormat   = errors.New("unknown output format")
)
