// internal/handlers/handlers.go
package handlers

import (
	"net/http"

	xerrors "freightline-service/internal/pkg/errors"
	"freightline-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP statuses. Decision
// points (vendor conflict, already decided) are handled by their handlers
// before reaching here.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case xerrors.Is(err, xerrors.ErrNotFound):
		response.NotFound(c, message)
	case xerrors.Is(err, xerrors.ErrUnauthorized), xerrors.Is(err, xerrors.ErrSessionExpired):
		response.Error(c, http.StatusUnauthorized, message, err)
	case xerrors.Is(err, xerrors.ErrForbidden):
		response.Forbidden(c, message)
	case xerrors.Is(err, xerrors.ErrInvalidInput):
		response.ValidationError(c, message, err)
	case xerrors.Is(err, xerrors.ErrSearchSuperseded):
		// an ordering discard, not a fault: a newer search owns the results
		response.Conflict(c, "search_superseded", message, nil)
	case xerrors.Is(err, xerrors.ErrDuplicateEntry), xerrors.Is(err, xerrors.ErrConflict):
		response.Error(c, http.StatusConflict, message, err)
	case xerrors.Is(err, xerrors.ErrRateLimited):
		response.Error(c, http.StatusTooManyRequests, message, err)
	default:
		response.Error(c, http.StatusInternalServerError, message, err)
	}
}
