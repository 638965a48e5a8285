package domain

import "errors"

var (
	ErrInvalidProductID  = errors.New("invalid product id")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductIDMismatch = errors.New("product id mismatch")
	ErrProductConflict   = errors.New("product was modified concurrently")

	// ErrStaleWrite is returned by repositories when a conditional replace
	// matched no row. Callers decide whether that means absent or conflicting.
	ErrStaleWrite = errors.New("stale write: no row matched id and version")
)
