// internal/handlers/cart_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"freightline-service/internal/domain/quotation"
	"freightline-service/internal/middleware"
	"freightline-service/internal/pkg/response"
	"freightline-service/internal/service/cart"
	"freightline-service/internal/service/search"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts  *cart.Service
	search *search.Service
}

func NewCartHandler(carts *cart.Service, searchSvc *search.Service) *CartHandler {
	return &CartHandler{carts: carts, search: searchSvc}
}

// cartView is the wire shape of the quotation plus its derived figures.
type cartView struct {
	*quotation.Quotation
	SelectedVehicles int     `json:"selected_vehicles"`
	TotalQuantity    int     `json:"total_quantity"`
	TotalAmount      float64 `json:"total_amount"`
}

func viewOf(q *quotation.Quotation) cartView {
	return cartView{
		Quotation:        q,
		SelectedVehicles: q.SelectedVehicleCount(),
		TotalQuantity:    q.TotalQuantity(),
		TotalAmount:      q.TotalAmount(),
	}
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *gin.Context) {
	q, err := h.carts.Get(c.Request.Context(), middleware.GetIdentityID(c))
	if err != nil {
		respondError(c, err, "Failed to load cart")
		return
	}
	response.Success(c, http.StatusOK, "Cart", viewOf(q))
}

// AddItem handles POST /cart/items. The truck must come from the caller's
// latest search results. A vendor conflict answers 409 with a machine code
// so the client can offer the confirm-switch choice.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req struct {
		TruckID             int64 `json:"truck_id" binding:"required"`
		Quantity            int   `json:"quantity"`
		ConfirmVendorSwitch bool  `json:"confirm_vendor_switch"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid cart payload", err)
		return
	}

	identityID := middleware.GetIdentityID(c)

	details, err := h.search.FindResult(c.Request.Context(), identityID, req.TruckID)
	if err != nil {
		respondError(c, err, "Truck not available")
		return
	}

	q, err := h.carts.AddVehicle(c.Request.Context(), identityID, *details, req.Quantity, req.ConfirmVendorSwitch)
	if err == quotation.ErrVendorConflict {
		current, loadErr := h.carts.Get(c.Request.Context(), identityID)
		if loadErr != nil {
			respondError(c, loadErr, "Failed to load cart")
			return
		}
		response.Conflict(c, "vendor_conflict",
			"Your quotation holds trucks from "+current.VendorName+"; confirm to switch vendors and start over",
			gin.H{"current_vendor": current.VendorName, "requested_vendor": details.VendorName})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to add truck")
		return
	}

	response.Success(c, http.StatusOK, "Truck added", viewOf(q))
}

// UpdateItem handles PUT /cart/items/:truckId.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	truckID, err := strconv.ParseInt(c.Param("truckId"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid truck id", err)
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid payload", err)
		return
	}

	q, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.GetIdentityID(c), truckID, req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update quantity")
		return
	}
	response.Success(c, http.StatusOK, "Quantity updated", viewOf(q))
}

// RemoveItem handles DELETE /cart/items/:truckId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	truckID, err := strconv.ParseInt(c.Param("truckId"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid truck id", err)
		return
	}

	q, err := h.carts.RemoveVehicle(c.Request.Context(), middleware.GetIdentityID(c), truckID)
	if err != nil {
		respondError(c, err, "Failed to remove truck")
		return
	}
	response.Success(c, http.StatusOK, "Truck removed", viewOf(q))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), middleware.GetIdentityID(c)); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	response.Success(c, http.StatusOK, "Cart cleared", nil)
}

// SaveToHistory handles POST /cart/history.
func (h *CartHandler) SaveToHistory(c *gin.Context) {
	if err := h.carts.SaveToHistory(c.Request.Context(), middleware.GetIdentityID(c)); err != nil {
		respondError(c, err, "Failed to save cart")
		return
	}
	response.Success(c, http.StatusOK, "Cart saved", nil)
}

// History handles GET /cart/history.
func (h *CartHandler) History(c *gin.Context) {
	snaps, err := h.carts.History(c.Request.Context(), middleware.GetIdentityID(c))
	if err != nil {
		respondError(c, err, "Failed to load history")
		return
	}
	response.Success(c, http.StatusOK, "Cart history", snaps)
}
