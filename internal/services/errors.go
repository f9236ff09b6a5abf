// internal/services/errors.go
package services

import "errors"

// Domain guard errors. Handlers map these onto the HTTP error taxonomy:
// not-found -> 404, everything else here -> 400.
var (
	ErrArtistNotFound     = errors.New("artist not found")
	ErrTrackGroupNotFound = errors.New("track group not found")
	ErrTrackNotFound      = errors.New("track not found")
	ErrMerchNotFound      = errors.New("merch not found")
	ErrFundraiserNotFound = errors.New("fundraiser not found")
	ErrPledgeNotFound     = errors.New("pledge not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrNotOwner            = errors.New("not the owner of this resource")
	ErrFundraiserNotActive = errors.New("fundraiser is not accepting pledges")
	ErrFundraiserExpired   = errors.New("fundraiser has ended")
	ErrPledgeCancelled     = errors.New("pledge was cancelled and cannot change")
	ErrPledgeAlreadyPaid   = errors.New("pledge has already been charged")
	ErrAmountTooSmall      = errors.New("amount is below the minimum")
)
