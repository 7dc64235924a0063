package constants

// PermissionRoles maps each permission to the workspace roles allowed to
// perform it. Roles are per-tenant (from TenantMember), not global.
var PermissionRoles = map[string][]string{
	ViewWorkspace:   {RoleOwner, RoleAdmin, RoleProfessional},
	UpdateWorkspace: {RoleOwner, RoleAdmin},
	DeleteWorkspace: {RoleOwner},
	ViewMembers:     {RoleOwner, RoleAdmin, RoleProfessional},
	RemoveMember:    {RoleOwner, RoleAdmin},
	InviteUser:      {RoleOwner, RoleAdmin},
	RevokeInvite:    {RoleOwner, RoleAdmin},
	ViewInvites:     {RoleOwner, RoleAdmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
