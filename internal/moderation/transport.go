package moderation

import (
	"context"
	"time"
)

// Role is a member's privilege level in a group, as reported by the chat
// transport.
type Role int

const (
	RoleUnknown Role = iota
	RoleMember
	RoleAdmin
	RoleOwner
)

// Elevated reports whether the role exempts its holder from moderation.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleOwner
}

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Transport is the capability interface the engine uses to act on the chat
// platform. Every method is best-effort: the engine logs failures and
// continues, and a failed action never unwinds a ledger or registry
// transition that was already recorded.
type Transport interface {
	// MemberRole returns the user's role in the group, RoleUnknown if the
	// lookup fails.
	MemberRole(ctx context.Context, groupID, userID int64) Role

	// DeleteMessage removes a message from a group.
	DeleteMessage(ctx context.Context, groupID int64, messageID int) error

	// RemoveMember bans a user from a single group.
	RemoveMember(ctx context.Context, groupID, userID int64) error

	// SendDirectNotification sends a private message to a user.
	SendDirectNotification(ctx context.Context, userID int64, text string) error

	// SendGroupNotification posts an ephemeral notice to a group, retracted
	// after ttl without blocking the caller.
	SendGroupNotification(ctx context.Context, groupID int64, text string, ttl time.Duration) error
}

// Audit receives mirror copies of ledger and registry mutations, typically
// backed by the optional database. Implementations must not fail the
// moderation flow.
type Audit interface {
	WarningRecorded(userID, groupID int64, reason, snippet string)
	BanRecorded(userID int64, username string, groupID int64, reason string, warnings int)
}
