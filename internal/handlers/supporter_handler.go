// internal/handlers/supporter_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

type SupporterHandler struct {
	supporters *services.SupporterService
}

func NewSupporterHandler(supporters *services.SupporterService) *SupporterHandler {
	return &SupporterHandler{supporters: supporters}
}

// ArtistSupporters handles GET /v1/artists/:id/supporters
func (h *SupporterHandler) ArtistSupporters(c *gin.Context) {
	artistID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid artist id")
		return
	}

	records, err := h.supporters.ArtistSupporters(artistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"result": records})
}

type supporterPage struct {
	Results         []services.SupporterRecord `json:"results"`
	Total           int                        `json:"total"`
	TotalAmount     int64                      `json:"totalAmount"`
	TotalSupporters int                        `json:"totalSupporters"`
}

// TrackGroupSupporters handles GET /v1/trackGroups/:id/supporters. Pledges
// from an attached all-or-nothing campaign count alongside direct purchases;
// statistics cover the full merged set before pagination.
func (h *SupporterHandler) TrackGroupSupporters(c *gin.Context) {
	trackGroupID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid track group id")
		return
	}

	page, err := utils.ParsePageParams(c, 20, 100)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	since, err := utils.ParseTimeParam(c, "sinceDate")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	records, summary, err := h.supporters.TrackGroupSupporters(trackGroupID, since)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, supporterPage{
		Results:         utils.Paginate(records, page),
		Total:           summary.Total,
		TotalAmount:     summary.TotalAmount,
		TotalSupporters: summary.TotalSupporters,
	})
}
