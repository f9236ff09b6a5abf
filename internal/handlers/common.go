// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tonearm/tonearm-backend/internal/i18n"
	"github.com/tonearm/tonearm-backend/internal/services"
	"github.com/tonearm/tonearm-backend/internal/utils"
)

// currentUserID reads the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := utils.GetUserIDFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// pathUUID parses a :param path segment as a uuid.
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// respondServiceError maps service failures onto the API error contract:
// missing resources are 404, guard violations are 400 with a translated
// message, anything unexpected is logged and answered generically.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrArtistNotFound):
		utils.NotFoundResponse(c, "artist")
	case errors.Is(err, services.ErrTrackGroupNotFound):
		utils.NotFoundResponse(c, "track_group")
	case errors.Is(err, services.ErrTrackNotFound):
		utils.NotFoundResponse(c, "track")
	case errors.Is(err, services.ErrMerchNotFound):
		utils.NotFoundResponse(c, "merch")
	case errors.Is(err, services.ErrFundraiserNotFound):
		utils.NotFoundResponse(c, "fundraiser")
	case errors.Is(err, services.ErrPledgeNotFound):
		utils.NotFoundResponse(c, "pledge")
	case errors.Is(err, services.ErrUserNotFound):
		utils.NotFoundResponse(c, "user")
	case errors.Is(err, services.ErrNotOwner):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrFundraiserNotActive):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFundraiserNotActive))
	case errors.Is(err, services.ErrFundraiserExpired):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFundraiserExpired))
	case errors.Is(err, services.ErrPledgeCancelled):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPledgeCancelled))
	case errors.Is(err, services.ErrPledgeAlreadyPaid):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPledgeAlreadyPaid))
	case errors.Is(err, services.ErrAmountTooSmall):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentInvalidAmount))
	default:
		utils.UnexpectedErrorResponse(c, err)
	}
}
