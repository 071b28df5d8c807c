package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	xerrors "freightline-service/internal/pkg/errors"
	"freightline-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRespondError(t *testing.T, err error) (int, response.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, err, "it went wrong")

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", xerrors.ErrNotFound, http.StatusNotFound},
		{"unauthorized", xerrors.ErrUnauthorized, http.StatusUnauthorized},
		{"session expired", xerrors.ErrSessionExpired, http.StatusUnauthorized},
		{"forbidden", xerrors.ErrForbidden, http.StatusForbidden},
		{"invalid input", xerrors.ErrInvalidInput, http.StatusBadRequest},
		{"duplicate", xerrors.ErrDuplicateEntry, http.StatusConflict},
		{"rate limited", xerrors.ErrRateLimited, http.StatusTooManyRequests},
		{"wrapped sentinel", fmt.Errorf("context: %w", xerrors.ErrForbidden), http.StatusForbidden},
		{"unknown", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := runRespondError(t, tc.err)
			assert.Equal(t, tc.want, code)
			assert.False(t, body.Success)
		})
	}
}

func TestRespondErrorSupersededSearchIsNotAServerFault(t *testing.T) {
	code, body := runRespondError(t, xerrors.ErrSearchSuperseded)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "search_superseded", body.Code)
	assert.False(t, body.Success)
}
