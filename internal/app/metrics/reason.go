package metrics

import (
	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

// Reason classifies an error into a low-cardinality label value.
func Reason(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrMalformedInput):
		return "malformed_input"
	case apperrors.Is(err, apperrors.ErrUnalignableOverlap):
		return "unalignable_overlap"
	case apperrors.Is(err, apperrors.ErrExhaustedSearch):
		return "exhausted_search"
	case apperrors.Is(err, apperrors.ErrObjectNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
