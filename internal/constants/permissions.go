package constants

const (
	ViewWorkspace     = "view_workspace"
	UpdateWorkspace   = "update_workspace"
	DeleteWorkspace   = "delete_workspace"
	ViewMembers       = "view_members"
	RemoveMember      = "remove_member"
	InviteUser        = "invite_user"
	RevokeInvite      = "revoke_invite"
	ViewInvites       = "view_invites"
)
