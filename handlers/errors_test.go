package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo/animals"
	"zoo/i18n"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind animals.Kind
		want int
	}{
		{animals.KindAnimalNotFound, http.StatusNotFound},
		{animals.KindSearchNotFound, http.StatusNotFound},
		{animals.KindInvalidNameFormat, http.StatusBadRequest},
		{animals.KindDuplicateName, http.StatusBadRequest},
		{animals.KindInvalidSortParameter, http.StatusBadRequest},
		{animals.KindInvalidDate, http.StatusBadRequest},
		{animals.KindInvalidID, http.StatusBadRequest},
		{animals.Kind(0), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.kind))
		})
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	bundle, err := i18n.NewBundle("en")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/animals", nil)

	writeError(c, bundle, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.True(t, c.IsAborted())
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("forty-two")
	assert.ErrorIs(t, err, animals.ErrInvalidID)
}
