// internal/handlers/catalog_handler.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

type CatalogHandler struct {
	catalog *services.CatalogService
	storage *services.StorageService
}

func NewCatalogHandler(catalog *services.CatalogService, storage *services.StorageService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, storage: storage}
}

// CreateArtist handles POST /v1/manage/artists
func (h *CatalogHandler) CreateArtist(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	artist, err := h.catalog.CreateArtist(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, artist)
}

// MyArtists handles GET /v1/manage/artists
func (h *CatalogHandler) MyArtists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	artists, err := h.catalog.MyArtists(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"result": artists})
}

// GetArtist handles GET /v1/artists/:id
func (h *CatalogHandler) GetArtist(c *gin.Context) {
	artistID, err := pathUUID(c, "id")
	if err != nil {
		// Fall back to slug lookup for public profile URLs
		artist, slugErr := h.catalog.GetArtistBySlug(c.Param("id"))
		if slugErr != nil {
			respondServiceError(c, slugErr)
			return
		}
		utils.SuccessResponse(c, artist)
		return
	}

	artist, err := h.catalog.GetArtist(artistID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, artist)
}

// UpdateArtist handles PUT /v1/manage/artists/:id
func (h *CatalogHandler) UpdateArtist(c *gin.Context) {
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

	var req services.UpdateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	artist, err := h.catalog.UpdateArtist(artistID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, artist)
}

// CreateTrackGroup handles POST /v1/manage/artists/:id/trackGroups
func (h *CatalogHandler) CreateTrackGroup(c *gin.Context) {
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

	var req services.CreateTrackGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	trackGroup, err := h.catalog.CreateTrackGroup(artistID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, trackGroup)
}

// GetTrackGroup handles GET /v1/trackGroups/:id
func (h *CatalogHandler) GetTrackGroup(c *gin.Context) {
	trackGroupID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid track group id")
		return
	}

	trackGroup, err := h.catalog.GetTrackGroup(trackGroupID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, trackGroup)
}

// PublishTrackGroup handles POST /v1/manage/trackGroups/:id/publish
func (h *CatalogHandler) PublishTrackGroup(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	trackGroupID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid track group id")
		return
	}

	var req struct {
		Published bool `json:"published"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	trackGroup, err := h.catalog.PublishTrackGroup(trackGroupID, userID, req.Published)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, trackGroup)
}

// AddTrack handles POST /v1/manage/trackGroups/:id/tracks
func (h *CatalogHandler) AddTrack(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	trackGroupID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid track group id")
		return
	}

	var req services.CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	track, err := h.catalog.AddTrack(trackGroupID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, track)
}

// UploadCover handles POST /v1/manage/trackGroups/:id/cover
func (h *CatalogHandler) UploadCover(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	trackGroupID, err := pathUUID(c, "id")
	if err != nil {
		utils.BadRequestResponse(c, "invalid track group id")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "file is required")
		return
	}
	defer file.Close()

	result, err := h.storage.UploadFile(file, header, services.UploadOptions{
		Folder:       "covers",
		MaxSize:      10 << 20,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
	})
	if err != nil {
		utils.BadRequestResponse(c, err.Error())
		return
	}

	trackGroup, err := h.catalog.SetTrackGroupCover(trackGroupID, userID, result.URL)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"upload": result, "trackGroup": trackGroup})
}

// CreateMerch handles POST /v1/manage/artists/:id/merch
func (h *CatalogHandler) CreateMerch(c *gin.Context) {
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

	var req services.CreateMerchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	merch, err := h.catalog.CreateMerch(artistID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, merch)
}

// CreateSubscriptionTier handles POST /v1/manage/artists/:id/subscriptionTiers
func (h *CatalogHandler) CreateSubscriptionTier(c *gin.Context) {
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

	var req services.CreateSubscriptionTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	tier, err := h.catalog.CreateSubscriptionTier(artistID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, tier)
}

// CreateTipTier handles POST /v1/manage/artists/:id/tipTiers
func (h *CatalogHandler) CreateTipTier(c *gin.Context) {
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

	var req services.CreateTipTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	tier, err := h.catalog.CreateTipTier(artistID, userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, tier)
}
