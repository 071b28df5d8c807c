// internal/handlers/truck_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"freightline-service/internal/domain/truck"
	"freightline-service/internal/middleware"
	"freightline-service/internal/pkg/response"
	"freightline-service/internal/service/cart"
	"freightline-service/internal/service/fleet"
	"freightline-service/internal/service/search"

	"github.com/gin-gonic/gin"
)

type TruckHandler struct {
	fleet  *fleet.Service
	search *search.Service
	carts  *cart.Service
}

func NewTruckHandler(fleetSvc *fleet.Service, searchSvc *search.Service, carts *cart.Service) *TruckHandler {
	return &TruckHandler{fleet: fleetSvc, search: searchSvc, carts: carts}
}

// Types handles GET /trucks/types. Public; the landing page renders the
// catalogue before login.
func (h *TruckHandler) Types(c *gin.Context) {
	types, err := h.fleet.Types(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to load truck types")
		return
	}
	response.Success(c, http.StatusOK, "Truck types", types)
}

// Search handles POST /trucks/search.
func (h *TruckHandler) Search(c *gin.Context) {
	var req truck.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid search payload", err)
		return
	}

	params := req.ToParams()
	identityID := middleware.GetIdentityID(c)

	result, err := h.search.Search(c.Request.Context(), identityID, &params)
	if err != nil {
		respondError(c, err, "Search failed")
		return
	}

	// remember the route so a later submission knows where the freight goes
	if _, err := h.carts.AttachSearch(c.Request.Context(), identityID, &params); err != nil {
		respondError(c, err, "Failed to record search")
		return
	}

	response.Success(c, http.StatusOK, "Search results", result)
}

// Results handles GET /trucks/search/results: the latest result view, or an
// empty payload when no search has run yet.
func (h *TruckHandler) Results(c *gin.Context) {
	result, err := h.search.LatestResults(c.Request.Context(), middleware.GetIdentityID(c))
	if err != nil {
		respondError(c, err, "Failed to load search results")
		return
	}
	if result == nil {
		response.Success(c, http.StatusOK, "No search has been run", nil)
		return
	}
	response.Success(c, http.StatusOK, "Search results", result)
}

// ListFleet handles GET /fleet.
func (h *TruckHandler) ListFleet(c *gin.Context) {
	trucks, err := h.fleet.ListFleet(c.Request.Context(), middleware.GetIdentityID(c), middleware.GetRole(c))
	if err != nil {
		respondError(c, err, "Failed to load fleet")
		return
	}
	response.Success(c, http.StatusOK, "Fleet", trucks)
}

// AddTruck handles POST /fleet.
func (h *TruckHandler) AddTruck(c *gin.Context) {
	var req truck.CreateTruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid truck payload", err)
		return
	}

	created, err := h.fleet.AddTruck(c.Request.Context(), middleware.GetIdentityID(c), middleware.GetRole(c), &req)
	if err != nil {
		respondError(c, err, "Failed to add truck")
		return
	}
	response.Success(c, http.StatusCreated, "Truck listed", created)
}

// SetTruckActive handles PUT /fleet/:id/active.
func (h *TruckHandler) SetTruckActive(c *gin.Context) {
	truckID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid truck id", err)
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid payload", err)
		return
	}

	if err := h.fleet.SetActive(c.Request.Context(), middleware.GetIdentityID(c), middleware.GetRole(c), truckID, req.Active); err != nil {
		respondError(c, err, "Failed to update truck")
		return
	}
	response.Success(c, http.StatusOK, "Truck updated", nil)
}
