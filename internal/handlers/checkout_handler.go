// internal/handlers/checkout_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

type CheckoutHandler struct {
	payments *services.PaymentService
}

func NewCheckoutHandler(payments *services.PaymentService) *CheckoutHandler {
	return &CheckoutHandler{payments: payments}
}

// CreateIntent handles POST /v1/checkout/intent
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	resp, err := h.payments.CreateCheckoutIntent(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, resp)
}

// Confirm handles POST /v1/checkout/confirm
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	var req struct {
		PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if err := h.payments.ConfirmCheckout(req.PaymentIntentID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"recorded": true})
}
