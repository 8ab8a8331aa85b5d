package apiErrors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInsufficientPrivilege, http.StatusForbidden},
		{ErrMissingRequiredData, http.StatusBadRequest},
		{ErrInvalidBreakdown, http.StatusUnprocessableEntity},
		{ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{ErrInvalidTransition, http.StatusConflict},
		{ErrFrozenEntity, http.StatusConflict},
		{ErrConcurrentUpdate, http.StatusConflict},
		{ErrNotFound, http.StatusNotFound},
		{ErrExternalService, http.StatusBadGateway},
		{"XYZ_999", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.code))
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrFrozenEntity, "POC congelado", map[string]string{"poc_id": "poc-a"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"code":"STATE_002","message":"POC congelado","details":{"poc_id":"poc-a"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	WriteError(rec, ErrNotFound, "", nil)
	assert.JSONEq(t, `{"code":"RES_001"}`, rec.Body.String())
}
