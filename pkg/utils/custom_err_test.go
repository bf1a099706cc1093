package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomyMatchesSentinels(t *testing.T) {
	notFound := fmt.Errorf("resolve: %w", NewNotFoundError("post", "missing-slug"))
	assert.True(t, errors.Is(notFound, ErrNotFound))

	cause := errors.New("connection reset")
	persist := NewPersistenceError("insert feedback", cause)
	assert.True(t, errors.Is(persist, ErrDatabaseError))
	assert.True(t, errors.Is(persist, cause))

	notify := &NotificationError{Kind: "feedback_webhook", Err: cause}
	assert.True(t, errors.Is(notify, ErrNotificationFailed))
	assert.False(t, errors.Is(notify, ErrDatabaseError))
}

func TestHandleServiceErrorStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
	}{
		{NewValidationError("rating", "must be between 1 and 5"), http.StatusBadRequest},
		{NewNotFoundError("post", "x"), http.StatusNotFound},
		{NewPersistenceError("insert", errors.New("boom")), http.StatusInternalServerError},
		{ErrForbidden, http.StatusForbidden},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrEmailAlreadyExists, http.StatusConflict},
		{ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Set("trace_id", "trace-1")

		HandleServiceError(c, tc.err)

		require.Equal(t, tc.code, rec.Code, tc.err.Error())
		var body APIResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "error", body.Status)
		assert.Equal(t, "trace-1", body.TraceID)
	}
}

func TestPersistenceErrorHidesCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	HandleServiceError(c, NewPersistenceError("insert feedback", errors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var body APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error: insert feedback failed", body.Message)
}
