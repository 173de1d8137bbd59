package model

import "time"

type TeamRole string

const (
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
)

type Team struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"join_code"`
	Balance   int       `json:"balance"` // team wallet, in rupees
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMember struct {
	TeamID   int64     `json:"team_id"`
	UserID   int64     `json:"user_id"`
	Role     TeamRole  `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamMembership is a team as seen by one of its members.
type TeamMembership struct {
	Team        *Team
	Role        TeamRole
	MemberCount int
}

func (m *TeamMembership) IsAdmin() bool {
	return m.Role == TeamRoleAdmin
}
