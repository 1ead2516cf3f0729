package session

import "errors"

// loadError indicates model weights could not be acquired or decoded.
type loadError struct{ cause error }

func (e loadError) Error() string { return "model load failed: " + e.cause.Error() }
func (e loadError) Unwrap() error { return e.cause }

// ErrLoad wraps err as a model-load failure.
func ErrLoad(err error) error { return loadError{cause: err} }

// IsLoadError reports whether err is a model-load failure.
func IsLoadError(err error) bool {
	var le loadError
	return errors.As(err, &le)
}

// generationError indicates a failure inside the token-production loop.
type generationError struct{ cause error }

func (e generationError) Error() string { return "generation failed: " + e.cause.Error() }
func (e generationError) Unwrap() error { return e.cause }

// ErrGeneration wraps err as a generation failure.
func ErrGeneration(err error) error { return generationError{cause: err} }

// IsGenerationError reports whether err is a generation failure.
func IsGenerationError(err error) bool {
	var ge generationError
	return errors.As(err, &ge)
}
