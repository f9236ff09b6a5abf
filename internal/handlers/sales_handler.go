// internal/handlers/sales_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tonearm/tonearm-backend/internal/models"
	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

// SalesHandler serves the artist-facing sales ledger.
type SalesHandler struct {
	sales *services.SalesService
}

func NewSalesHandler(sales *services.SalesService) *SalesHandler {
	return &SalesHandler{sales: sales}
}

type salesPage struct {
	Results         []models.Sale `json:"results"`
	Total           int           `json:"total"`
	TotalAmount     int64         `json:"totalAmount"`
	TotalSupporters int           `json:"totalSupporters"`
}

// ListSales handles GET /v1/manage/sales. The statistics describe the full
// matched set; take and skip only window the results array.
func (h *SalesHandler) ListSales(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	page, err := utils.ParsePageParams(c, 50, 500)
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	artistIDs, err := utils.ParseUUIDListParam(c, "artistIds")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	trackGroupIDs, err := utils.ParseUUIDListParam(c, "trackGroupIds")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}
	since, err := utils.ParseTimeParam(c, "sinceDate")
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	owned, err := h.sales.ArtistIDsOwnedBy(userID)
	if err != nil {
		utils.UnexpectedErrorResponse(c, err)
		return
	}

	// The requested artist filter is intersected with ownership, so a user
	// can never widen the query past their own artists.
	scope := owned
	if len(artistIDs) > 0 {
		scope = intersectIDs(owned, artistIDs)
	}

	sales, summary, err := h.sales.FindSales(scope, services.FindSalesOptions{
		TrackGroupIDs: trackGroupIDs,
		Since:         since,
	})
	if err != nil {
		utils.UnexpectedErrorResponse(c, err)
		return
	}

	services.SortSalesByDateDesc(sales)

	utils.SuccessResponse(c, salesPage{
		Results:         utils.Paginate(sales, page),
		Total:           summary.Total,
		TotalAmount:     summary.TotalAmount,
		TotalSupporters: summary.TotalSupporters,
	})
}

func intersectIDs(owned, requested []uuid.UUID) []uuid.UUID {
	allowed := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		allowed[id] = struct{}{}
	}
	result := make([]uuid.UUID, 0, len(requested))
	for _, id := range requested {
		if _, ok := allowed[id]; ok {
			result = append(result, id)
		}
	}
	return result
}
