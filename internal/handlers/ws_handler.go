// internal/handlers/ws_handler.go
package handlers

import (
	"freightline-service/internal/middleware"
	"freightline-service/internal/pkg/response"
	"freightline-service/internal/ws"

	"github.com/gin-gonic/gin"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Connect handles GET /ws. Runs behind the auth middleware; the hub pushes
// quotation status events to the authenticated identity.
func (h *WSHandler) Connect(c *gin.Context) {
	identityID := middleware.GetIdentityID(c)
	if identityID == 0 {
		response.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, identityID); err != nil {
		// the upgrade already wrote its own failure response
		_ = c.Error(err)
	}
}
