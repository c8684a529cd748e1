package tasks

import "taskforge/internal/auth"

// Access rules for tasks. Pure functions over already-loaded state; the
// service layer checks existence first, so a nil task never reaches these.
//
// Admins bypass the relationship checks for every task operation. For
// everyone else access hangs on being the creator or the assignee, with
// one asymmetry: an assignee may update a task but not delete it.

func isParticipant(u *auth.User, t *Task) bool {
	if t.CreatedBy == u.ID {
		return true
	}
	return t.AssignedTo != nil && *t.AssignedTo == u.ID
}

func CanRead(u *auth.User, t *Task) bool {
	return u.Role.IsAdmin() || isParticipant(u, t)
}

func CanUpdate(u *auth.User, t *Task) bool {
	return u.Role.IsAdmin() || isParticipant(u, t)
}

func CanDelete(u *auth.User, t *Task) bool {
	return u.Role.IsAdmin() || t.CreatedBy == u.ID
}

// CanAccessNotes gates note creation and per-task note listing. Admins
// get no override here: only the creator and the assignee qualify.
func CanAccessNotes(u *auth.User, t *Task) bool {
	return isParticipant(u, t)
}
