package notes

import (
	"testing"

	"taskforge/internal/auth"
)

func TestCanDeleteAuthorOnly(t *testing.T) {
	note := &Note{ID: 1, TaskID: 1, UserID: 5}
	cases := []struct {
		name string
		u    *auth.User
		want bool
	}{
		{"author", &auth.User{ID: 5, Role: auth.RoleMember}, true},
		// No admin override on note deletion.
		{"admin non-author", &auth.User{ID: 99, Role: auth.RoleAdmin}, false},
		{"stranger", &auth.User{ID: 6, Role: auth.RoleMember}, false},
		{"admin author", &auth.User{ID: 5, Role: auth.RoleAdmin}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanDelete(tc.u, note); got != tc.want {
				t.Fatalf("CanDelete = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSeesAllNotes(t *testing.T) {
	if !SeesAllNotes(&auth.User{ID: 1, Role: auth.RoleAdmin}) {
		t.Fatal("admin should see all notes")
	}
	if SeesAllNotes(&auth.User{ID: 1, Role: auth.RoleManager}) {
		t.Fatal("manager should only see own notes")
	}
	if SeesAllNotes(&auth.User{ID: 1, Role: auth.Role("mystery")}) {
		t.Fatal("unknown role should fall into the base tier")
	}
}
