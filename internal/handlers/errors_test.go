package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_RecordsCauseWithoutLeakingIt(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, http.StatusInternalServerError, "Failed to load registration form", errors.New("pool exhausted"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load registration form"}`, w.Body.String())
	require.Len(t, c.Errors, 1)
	assert.EqualError(t, c.Errors.Last().Err, "pool exhausted")
	assert.True(t, c.Errors.Last().IsType(gin.ErrorTypePrivate))
}

func TestRespondError_NilCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, http.StatusBadRequest, "Missing hackathon ID", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, c.Errors)
}

func TestRespondBindError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondBindError(c, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Validation failed","details":[{"field":"body","message":"Malformed JSON body"}]}`, w.Body.String())
	assert.Len(t, c.Errors, 1)
}
