// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess      = "success"
	KeyErrorGeneric = "error.generic"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Artists and catalog
	KeyArtistNotFound     = "artist.not_found"
	KeyArtistCreated      = "artist.created"
	KeyTrackGroupNotFound = "track_group.not_found"
	KeyTrackGroupCreated  = "track_group.created"
	KeyTrackNotFound      = "track.not_found"
	KeyTrackCreated       = "track.created"
	KeyUserNotFound       = "user.not_found"
	KeyMerchNotFound      = "merch.not_found"
	KeyMerchCreated       = "merch.created"

	// Sales
	KeySaleNoResults = "sale.no_results"

	// Fundraisers and pledges
	KeyFundraiserNotFound  = "fundraiser.not_found"
	KeyFundraiserCreated   = "fundraiser.created"
	KeyFundraiserNotActive = "fundraiser.not_active"
	KeyFundraiserExpired   = "fundraiser.expired"
	KeyFundraiserCancelled = "fundraiser.cancelled"
	KeyPledgeNotFound      = "pledge.not_found"
	KeyPledgeCreated       = "pledge.created"
	KeyPledgeCancelled     = "pledge.cancelled"
	KeyPledgeAlreadyPaid   = "pledge.already_paid"
	KeyPledgeTerminal      = "pledge.terminal"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Admin
	KeyAdminSettingsUpdated = "admin.settings_updated"
)
