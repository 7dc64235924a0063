package constants

const (
	RoleOwner        = "owner"
	RoleAdmin        = "admin"
	RoleProfessional = "professional"
)

// MemberRoles is the set of allowed DB enum values for tenant member role.
var MemberRoles = []string{RoleOwner, RoleAdmin, RoleProfessional}

// IsValidMemberRole returns true if role is one of the allowed enum values.
func IsValidMemberRole(role string) bool {
	for _, r := range MemberRoles {
		if r == role {
			return true
		}
	}
	return false
}

// InvitableRoles excludes owner: ownership is fixed at workspace creation and
// can never be granted through an invitation.
var InvitableRoles = []string{RoleAdmin, RoleProfessional}

func IsInvitableRole(role string) bool {
	for _, r := range InvitableRoles {
		if r == role {
			return true
		}
	}
	return false
}
