// internal/handlers/quotation_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"freightline-service/internal/middleware"
	xerrors "freightline-service/internal/pkg/errors"
	"freightline-service/internal/pkg/response"
	quotationservice "freightline-service/internal/service/quotation"

	"github.com/gin-gonic/gin"
)

type QuotationHandler struct {
	service *quotationservice.Service
}

func NewQuotationHandler(service *quotationservice.Service) *QuotationHandler {
	return &QuotationHandler{service: service}
}

func actorOf(c *gin.Context) quotationservice.Actor {
	return quotationservice.Actor{
		IdentityID: middleware.GetIdentityID(c),
		Role:       middleware.GetRole(c),
	}
}

// Submit handles POST /quotations: the caller's cart becomes a pending
// request. An empty cart fails immediately with a validation error.
func (h *QuotationHandler) Submit(c *gin.Context) {
	req, err := h.service.Submit(c.Request.Context(), actorOf(c))
	if xerrors.Is(err, xerrors.ErrEmptyQuotation) {
		response.ValidationError(c, "Add at least one truck before submitting", err)
		return
	}
	if err != nil {
		respondError(c, err, "Failed to submit quotation")
		return
	}
	response.Success(c, http.StatusCreated, "Quotation submitted", req)
}

// List handles GET /quotations with role-based visibility.
func (h *QuotationHandler) List(c *gin.Context) {
	requests, err := h.service.List(c.Request.Context(), actorOf(c))
	if err != nil {
		respondError(c, err, "Failed to load quotations")
		return
	}
	response.Success(c, http.StatusOK, "Quotations", requests)
}

// Get handles GET /quotations/:id.
func (h *QuotationHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid quotation id", err)
		return
	}

	req, err := h.service.Get(c.Request.Context(), actorOf(c), id)
	if err != nil {
		respondError(c, err, "Failed to load quotation")
		return
	}
	response.Success(c, http.StatusOK, "Quotation", req)
}

// Accept handles PUT /quotations/:id/accept.
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.decide(c, true)
}

// Reject handles PUT /quotations/:id/reject.
func (h *QuotationHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *QuotationHandler) decide(c *gin.Context, accept bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid quotation id", err)
		return
	}

	actor := actorOf(c)
	actor.FullName = middleware.GetEmail(c)

	decided, err := h.service.Decide(c.Request.Context(), actor, id, accept)
	if xerrors.Is(err, xerrors.ErrAlreadyDecided) {
		// surface the standing decision so the client can re-render it
		current, getErr := h.service.Get(c.Request.Context(), actor, id)
		if getErr != nil {
			respondError(c, getErr, "Failed to load quotation")
			return
		}
		response.Conflict(c, "already_decided",
			"This quotation has already been "+string(current.Status), current)
		return
	}
	if err != nil {
		respondError(c, err, "Failed to decide quotation")
		return
	}

	message := "Quotation rejected"
	if accept {
		message = "Quotation accepted"
	}
	response.Success(c, http.StatusOK, message, decided)
}

// Invoice handles GET /quotations/:id/invoice.
func (h *QuotationHandler) Invoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "Invalid quotation id", err)
		return
	}

	actor := actorOf(c)
	actor.FullName = middleware.GetEmail(c)

	inv, err := h.service.Invoice(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "Failed to build invoice")
		return
	}
	response.Success(c, http.StatusOK, "Invoice", inv)
}
