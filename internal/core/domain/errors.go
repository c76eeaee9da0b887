package domain

import "errors"

// Domain error taxonomy. Every service operation fails with one of these
// sentinels (possibly wrapped with context) so the HTTP layer can map them
// to deterministic status codes.
var (
	ErrForbidden              = errors.New("access forbidden")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrConflict               = errors.New("concurrent update conflict")
	ErrRequestAlreadyAccepted = errors.New("request already has an accepted offer")
	ErrRequestNotNegotiable   = errors.New("request is not open for offers")
	ErrOfferNotPending        = errors.New("offer is not pending")
	ErrChannelLocked          = errors.New("chat channel is locked")
	ErrIncompleteSubmission   = errors.New("submission is missing required fields")
	ErrAlreadyAdjudicated     = errors.New("verification record already adjudicated")
	ErrAlreadyRated           = errors.New("rating already submitted for this request")
	ErrRatingNotUnlocked      = errors.New("rating requires a completed request")

	ErrRequestNotFound      = errors.New("transport request not found")
	ErrOfferNotFound        = errors.New("offer not found")
	ErrRecordNotFound       = errors.New("verification record not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrPaymentNotFound      = errors.New("payment transaction not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
