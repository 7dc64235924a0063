package tenants

import "errors"

var (
	ErrTenantNotFound = errors.New("Workspace not found")
	ErrNotMember      = errors.New("User is not a member of this workspace")
	ErrForbidden      = errors.New("User is Forbidden from performing this action")
	ErrSlugExhausted  = errors.New("Could not derive a unique workspace slug")
)
