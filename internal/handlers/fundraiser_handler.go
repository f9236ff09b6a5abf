// internal/handlers/fundraiser_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

type FundraiserHandler struct {
	pledges *services.PledgeService
}

func NewFundraiserHandler(pledges *services.PledgeService) *FundraiserHandler {
	return &FundraiserHandler{pledges: pledges}
}

// CreateFundraiser handles POST /v1/manage/artists/:id/fundraisers
func (h *FundraiserHandler) CreateFundraiser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	artistID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid artist id")
		return
	}

	var req services.CreateFundraiserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	fundraiser, err := h.pledges.CreateFundraiser(userID, artistID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, fundraiser)
}

// GetFundraiser handles GET /v1/fundraisers/:id
func (h *FundraiserHandler) GetFundraiser(c *gin.Context) {
	fundraiserID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid fundraiser id")
		return
	}

	view, err := h.pledges.GetFundraiser(fundraiserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, view)
}

// CancelFundraiser handles POST /v1/manage/fundraisers/:id/cancel
func (h *FundraiserHandler) CancelFundraiser(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	fundraiserID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid fundraiser id")
		return
	}

	if err := h.pledges.CancelFundraiser(userID, fundraiserID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"cancelled": true})
}

// ListPledges handles GET /v1/fundraisers/:id/pledges
func (h *FundraiserHandler) ListPledges(c *gin.Context) {
	fundraiserID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid fundraiser id")
		return
	}
	includeCancelled, err := utils.ParseBoolParam(c, "includeCancelled")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	pledges, err := h.pledges.ListPledges(fundraiserID, includeCancelled)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"result": pledges})
}

// CreatePledge handles POST /v1/fundraisers/:id/pledges
func (h *FundraiserHandler) CreatePledge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	fundraiserID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid fundraiser id")
		return
	}

	var req services.CreatePledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	resp, err := h.pledges.CreatePledge(userID, fundraiserID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, resp)
}

// ConfirmPledge handles POST /v1/pledges/confirm
func (h *FundraiserHandler) ConfirmPledge(c *gin.Context) {
	var req struct {
		SetupIntentID string `json:"setup_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	if err := h.pledges.ConfirmPledge(req.SetupIntentID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"confirmed": true})
}

// CancelPledge handles POST /v1/pledges/:id/cancel
func (h *FundraiserHandler) CancelPledge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	pledgeID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid pledge id")
		return
	}

	if err := h.pledges.CancelPledge(userID, pledgeID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"cancelled": true})
}
