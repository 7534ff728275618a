package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"malformed", apperrors.Malformed("aws item 3"), http.StatusUnprocessableEntity, "malformed_input"},
		{"unalignable", apperrors.Wrap(apperrors.ErrUnalignableOverlap, "seam 0/1"), http.StatusConflict, "unalignable_overlap"},
		{"exhausted", apperrors.ErrExhaustedSearch, http.StatusConflict, "exhausted_search"},
		{"not found", apperrors.NotFound("episode", "x_1"), http.StatusNotFound, ""},
		{"validation", apperrors.OutOfRange("overlap", 1, 100), http.StatusUnprocessableEntity, ""},
		{"unknown", errors.New("dial tcp: refused"), http.StatusInternalServerError, ""},
		{"api error", NewBadRequestError("bad"), http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			assert.Equal(t, tt.status, apiErr.HTTPStatus())
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}

	assert.Equal(t, "Internal server error", FromError(errors.New("secret dsn")).Message)
}
