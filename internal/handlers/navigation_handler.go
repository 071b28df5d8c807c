// internal/handlers/navigation_handler.go
package handlers

import (
	"net/http"

	"freightline-service/internal/domain/navigation"
	"freightline-service/internal/middleware"
	"freightline-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

// Menu handles GET /navigation. The menu is recomputed from the caller's
// role on every request; nothing is cached client side.
func (h *NavigationHandler) Menu(c *gin.Context) {
	menu := navigation.Build(middleware.GetRole(c))
	response.Success(c, http.StatusOK, "Navigation", menu)
}
