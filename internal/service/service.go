package service

import (
	"alcyxob/coaching-app/internal/repository"
	"errors"
)

// Errors shared across the services. Every engine operation requires a
// caller identity; a nil ID where one is expected always maps to
// ErrNotAuthenticated rather than a generic validation error, so the
// API layer can tell "log in again" apart from "fix your input".
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrStoreUnavailable is the only error class a caller may
	// legitimately retry or fall back from; validation errors never are.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)

// wrapRepoErr translates transport-level repository failures into the
// service taxonomy and passes everything else through untouched.
func wrapRepoErr(err error) error {
	if errors.Is(err, repository.ErrStoreUnavailable) {
		return ErrStoreUnavailable
	}
	return err
}
