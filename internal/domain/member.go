package domain

import (
	"context"
	"time"
)

// Role is a member's role within a club.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleClubAdmin      Role = "club_admin"
	RoleClubAdminCoach Role = "club_admin_coach"
	RoleCoach          Role = "coach"
	RoleViewOnly       Role = "view_only"
)

// ClubRoles are the roles an invitation may carry.
var ClubRoles = []Role{RoleClubAdmin, RoleClubAdminCoach, RoleCoach, RoleViewOnly}

// Valid reports whether r can be held inside a club.
func (r Role) Valid() bool {
	switch r {
	case RoleClubAdmin, RoleClubAdminCoach, RoleCoach, RoleViewOnly:
		return true
	}
	return false
}

// CanManageClub reports whether the role may invite members and read quotas.
func (r Role) CanManageClub() bool {
	return r == RoleClubAdmin || r == RoleClubAdminCoach || r == RoleSuperAdmin
}

// SeatCategory is a billable unit of subscription capacity.
type SeatCategory string

const (
	SeatNone     SeatCategory = ""
	SeatCoach    SeatCategory = "coach"
	SeatViewOnly SeatCategory = "view_only"
)

// SeatCategories lists the capped categories.
var SeatCategories = []SeatCategory{SeatCoach, SeatViewOnly}

// Valid reports whether c is a capped category.
func (c SeatCategory) Valid() bool {
	return c == SeatCoach || c == SeatViewOnly
}

// Plural is the human-readable name used in quota messages.
func (c SeatCategory) Plural() string {
	switch c {
	case SeatCoach:
		return "coaches"
	case SeatViewOnly:
		return "view-only users"
	}
	return "members"
}

// SeatCategory maps a role to the seat it consumes. club_admin consumes none; a club
// admin who also coaches counts only against the coach cap.
func (r Role) SeatCategory() SeatCategory {
	switch r {
	case RoleClubAdminCoach, RoleCoach:
		return SeatCoach
	case RoleViewOnly:
		return SeatViewOnly
	}
	return SeatNone
}

// RolesFor returns every role consuming category c.
func RolesFor(c SeatCategory) []Role {
	var roles []Role
	for _, r := range ClubRoles {
		if r.SeatCategory() == c {
			roles = append(roles, r)
		}
	}
	return roles
}

// Member is a user attached to a club, optionally to one team within it.
// swagger:model Member
type Member struct {
	ID        string    `json:"id"`
	ClubID    string    `json:"club_id"`
	TeamID    *string   `json:"team_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// MemberRepository defines read access to club members.
type MemberRepository interface {
	ListByClubID(ctx context.Context, clubID string) ([]*Member, error)
}
