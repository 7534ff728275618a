package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ian97531/boombox/internal/app/errors"
)

func TestObserve(t *testing.T) {
	m := New()
	started := time.Now()

	m.Observe(OpStitch, "aws", started, 120, nil)
	m.Observe(OpStitch, "aws", started, 80, nil)
	m.Observe(OpStitch, "watson", started, 0, apperrors.Wrap(apperrors.ErrUnalignableOverlap, "seam 0/1"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(OpStitch, "aws")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues(OpStitch, "unalignable_overlap")))
	assert.Equal(t, 80.0, testutil.ToFloat64(m.items.WithLabelValues(OpStitch)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestObserveNil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe(OpMerge, "", time.Now(), 1, nil) })
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{apperrors.Malformed("bad json"), "malformed_input"},
		{apperrors.Wrap(apperrors.ErrExhaustedSearch, "x"), "exhausted_search"},
		{apperrors.NotFound("object", "k"), "not_found"},
		{errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Reason(tt.err), tt.err.Error())
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe(OpMerge, "", time.Now(), 3, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `boombox_operations_total{operation="merge",provider=""} 1`))
}
