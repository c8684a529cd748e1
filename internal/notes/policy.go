package notes

import "taskforge/internal/auth"

// Note access is deliberately narrower than task access: admins get no
// override on authorship. Creation and per-task listing are gated by the
// parent task (tasks.CanAccessNotes); deletion is author-only.

func CanDelete(u *auth.User, n *Note) bool {
	return n.UserID == u.ID
}

// SeesAllNotes applies to the unscoped listing only: admins see every
// note, everyone else sees just what they authored.
func SeesAllNotes(u *auth.User) bool {
	return u.Role.IsAdmin()
}
