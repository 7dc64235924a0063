package invitations

import "errors"

// Domain outcomes of the invitation lifecycle. Storage-level constraint
// violations are always translated to one of these at the service boundary;
// raw gorm errors never leave this package. Every failure is terminal for the
// current call and safe to retry at the caller's discretion.
var (
	ErrNotFound         = errors.New("Invalid or expired invitation")
	ErrExpired          = errors.New("Invitation has expired")
	ErrAlreadyProcessed = errors.New("Invitation already processed")
	ErrAlreadyMember    = errors.New("User is already a member")
	ErrForbidden        = errors.New("Invitation was issued to a different email address")
	ErrTenantInactive   = errors.New("Workspace is not active")
	ErrNotMember        = errors.New("User is not a member of this workspace")
	ErrNoPermission     = errors.New("User is Forbidden from performing this action")
	ErrResendThrottled  = errors.New("Invite can only be resent once per day")
)
