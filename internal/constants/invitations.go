package constants

// Invitation lifecycle states. Pending is the only non-terminal state; the
// other three are terminal and reject all further mutation.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
	InviteStatusExpired  = "expired"
)

var InviteStatuses = []string{
	InviteStatusPending,
	InviteStatusAccepted,
	InviteStatusRejected,
	InviteStatusExpired,
}

func IsValidInviteStatus(s string) bool {
	for _, v := range InviteStatuses {
		if v == s {
			return true
		}
	}
	return false
}
