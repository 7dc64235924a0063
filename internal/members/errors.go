package members

import "errors"

var (
	ErrMemberExists   = errors.New("User is already an active member of this workspace")
	ErrMemberNotFound = errors.New("Membership not found")
)
