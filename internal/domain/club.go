package domain

import (
	"context"
	"time"
)

// ClubStatus is the lifecycle state of a club.
type ClubStatus string

const (
	ClubStatusActive    ClubStatus = "active"
	ClubStatusSuspended ClubStatus = "suspended"
)

// Club owns members and invitations. Nil caps mean the category is uncapped.
// swagger:model Club
type Club struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Sports           []string   `json:"sports"`
	MaxCoachAccounts *int       `json:"max_coach_accounts"`
	MaxViewOnlyUsers *int       `json:"max_view_only_users"`
	Status           ClubStatus `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewClub returns a new active Club. ID is set by the repository on create.
func NewClub(name string, sports []string, maxCoach, maxViewOnly *int, now time.Time) *Club {
	return &Club{
		Name:             name,
		Sports:           sports,
		MaxCoachAccounts: maxCoach,
		MaxViewOnlyUsers: maxViewOnly,
		Status:           ClubStatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Cap returns the club's cap for category c, or nil when uncapped.
func (c *Club) Cap(category SeatCategory) *int {
	switch category {
	case SeatCoach:
		return c.MaxCoachAccounts
	case SeatViewOnly:
		return c.MaxViewOnlyUsers
	}
	return nil
}

// ClubRepository defines storage operations for clubs.
type ClubRepository interface {
	Create(ctx context.Context, club *Club) error
	GetByID(ctx context.Context, id string) (*Club, error)
}

// ClubService manages clubs and reads their members.
type ClubService interface {
	CreateClub(ctx context.Context, name string, sports []string, maxCoach, maxViewOnly *int) (*Club, error)
	GetClub(ctx context.Context, clubID string) (*Club, error)
	ListMembers(ctx context.Context, clubID string) ([]*Member, error)
}
