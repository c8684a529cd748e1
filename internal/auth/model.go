package auth

import "time"

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleManager         Role = "manager"
	RoleTeamLeader      Role = "team_leader"
	RoleDeveloper       Role = "developer"
	RoleSystemEngineer  Role = "system_engineer"
	RoleDevopsEngineer  Role = "devops_engineer"
	RoleNetworkEngineer Role = "network_engineer"
	RoleAIEngineer      Role = "ai_engineer"
	RoleMember          Role = "member"
)

// IsAdmin is the only privilege distinction the access rules draw today.
// Every other role, including unrecognized values, lands in the base tier.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserUpdate carries only the fields the client actually sent; nil means
// leave the stored value alone.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *Role   `json:"role"`
}
