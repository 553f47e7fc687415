package domain

import (
	"context"
	"time"
)

// Invitation lifetime and code shape. Fixed policy, not configurable.
const (
	InvitationLifetime = 7 * 24 * time.Hour
	InvitationCodeLen  = 8
	InvitationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	InvitationMaxUses  = 1
)

// Invitation is a single-use, time-limited referral code. The code is the primary key.
// It doubles as the provisioning manifest the signup finalizer turns into a Member.
// swagger:model Invitation
type Invitation struct {
	Code         string    `json:"code"`
	ClubID       string    `json:"club_id"`
	ClubName     string    `json:"club_name"`
	TeamID       *string   `json:"team_id"`
	IntendedRole Role      `json:"intended_role"`
	AdminEmail   string    `json:"admin_email"`
	FirstName    *string   `json:"first_name"`
	LastName     *string   `json:"last_name"`
	MaxUses      int       `json:"max_uses"`
	UsesCount    int       `json:"uses_count"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// NewInvitation returns an active, unused invitation expiring InvitationLifetime after now.
func NewInvitation(code, clubID, clubName string, teamID *string, inv Invitee, now time.Time) *Invitation {
	return &Invitation{
		Code:         code,
		ClubID:       clubID,
		ClubName:     clubName,
		TeamID:       teamID,
		IntendedRole: inv.Role,
		AdminEmail:   inv.Email,
		FirstName:    optional(inv.FirstName),
		LastName:     optional(inv.LastName),
		MaxUses:      InvitationMaxUses,
		UsesCount:    0,
		Active:       true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(InvitationLifetime),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// RedeemReason explains a redeemability decision.
type RedeemReason string

const (
	ReasonOK        RedeemReason = "ok"
	ReasonExpired   RedeemReason = "expired"
	ReasonExhausted RedeemReason = "exhausted"
	ReasonInactive  RedeemReason = "inactive"
)

// InvitationStatus is the explicit state derived from active, usesCount and expiresAt.
type InvitationStatus string

const (
	StatusActive      InvitationStatus = "active"
	StatusRedeemed    InvitationStatus = "redeemed"
	StatusExpired     InvitationStatus = "expired"
	StatusDeactivated InvitationStatus = "deactivated"
)

// Valid reports whether s is a known status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusRedeemed, StatusExpired, StatusDeactivated:
		return true
	}
	return false
}

// RedeemCheck is the result of the expiry policy.
type RedeemCheck struct {
	OK     bool         `json:"ok"`
	Reason RedeemReason `json:"reason"`
}

// CheckRedeemable applies the expiry policy: redeemable iff uses remain, the code is
// active and now is strictly before expiresAt. Exhaustion is reported before inactivity
// because the finalizer clears active on the last use.
func CheckRedeemable(inv *Invitation, now time.Time) RedeemCheck {
	switch {
	case inv.UsesCount >= inv.MaxUses:
		return RedeemCheck{Reason: ReasonExhausted}
	case !inv.Active:
		return RedeemCheck{Reason: ReasonInactive}
	case !now.Before(inv.ExpiresAt):
		return RedeemCheck{Reason: ReasonExpired}
	}
	return RedeemCheck{OK: true, Reason: ReasonOK}
}

// Status derives the tagged state of inv at now.
func (inv *Invitation) Status(now time.Time) InvitationStatus {
	switch CheckRedeemable(inv, now).Reason {
	case ReasonExhausted:
		return StatusRedeemed
	case ReasonInactive:
		return StatusDeactivated
	case ReasonExpired:
		return StatusExpired
	}
	return StatusActive
}

// Invitee is one row of an invitation batch.
type Invitee struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// IssueRequest is a batch of invitations for one club and optional team.
type IssueRequest struct {
	ClubID   string
	ClubName string
	TeamID   *string
	Invitees []Invitee
}

// IssuedInvitation is what the admin sees after a successful batch.
// swagger:model IssuedInvitation
type IssuedInvitation struct {
	Code      string    `json:"code"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueResult reports the persisted batch. Persisted is 0 or len(Invitations).
type IssueResult struct {
	Invitations []IssuedInvitation `json:"codes"`
	Persisted   int                `json:"persisted"`
}

// SeatCheck is the Seat Accountant's verdict.
// swagger:model SeatCheck
type SeatCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// SeatUsage is what a club has committed in one category.
type SeatUsage struct {
	Members int `json:"members"`
	Pending int `json:"pending"`
}

// Total is members plus pending invitations.
func (u SeatUsage) Total() int { return u.Members + u.Pending }

// SeatSummary describes one category for dashboards. Cap and Remaining are nil when uncapped.
// swagger:model SeatSummary
type SeatSummary struct {
	Category  SeatCategory `json:"category"`
	Cap       *int         `json:"cap"`
	Members   int          `json:"members"`
	Pending   int          `json:"pending"`
	Remaining *int         `json:"remaining"`
}

// InvitationFilter narrows a club's invitation listing.
type InvitationFilter struct {
	Status InvitationStatus
	Now    time.Time
}

// SeatReader reads a club's caps and committed seats.
type SeatReader interface {
	GetClub(ctx context.Context, clubID string) (*Club, error)
	// CountSeatUsage counts members and redeemable invitations of category in one snapshot.
	CountSeatUsage(ctx context.Context, clubID string, category SeatCategory, now time.Time) (SeatUsage, error)
}

// InviteeConflict says why an email cannot be invited to a club again.
type InviteeConflict string

const (
	ConflictMember  InviteeConflict = "member"
	ConflictPending InviteeConflict = "pending"
)

// ClubTx is a unit of work serialized against every other ClubTx of the same club.
type ClubTx interface {
	SeatReader
	// FindInviteeConflicts returns, keyed by lower-case email, which of emails already
	// belong to a member of the club or to one of its redeemable invitations. Member wins
	// when both apply.
	FindInviteeConflicts(ctx context.Context, clubID string, emails []string, now time.Time) (map[string]InviteeConflict, error)
	// CreateInvitation inserts inv if its code is free; otherwise ErrCodeCollision.
	CreateInvitation(ctx context.Context, inv *Invitation) error
}

// InvitationStore is the document store for clubs, members and referral codes.
type InvitationStore interface {
	SeatReader
	InClubTx(ctx context.Context, clubID string, fn func(ctx context.Context, tx ClubTx) error) error
	GetInvitation(ctx context.Context, code string) (*Invitation, error)
	ListInvitations(ctx context.Context, clubID string, filter InvitationFilter, params PaginationParams) ([]*Invitation, int, error)
	// RedeemInvitation atomically re-checks redeemability, consumes one use and creates member.
	RedeemInvitation(ctx context.Context, code string, member *Member, now time.Time) (*Invitation, error)
}

// CodeGenerator produces invitation codes.
type CodeGenerator interface {
	Generate() (string, error)
}

// Clock returns the current time.
type Clock func() time.Time

// SeatAccountant answers whether a club can commit more seats.
type SeatAccountant interface {
	ValidateSeatRequest(ctx context.Context, clubID string, category SeatCategory, additional int) (SeatCheck, error)
	Summary(ctx context.Context, clubID string) ([]SeatSummary, error)
}

// InvitationService is the single entry point for issuing and reading invitations.
type InvitationService interface {
	IssueInvitations(ctx context.Context, req IssueRequest) (*IssueResult, error)
	GetInvitation(ctx context.Context, code string) (*Invitation, RedeemCheck, error)
	ListInvitations(ctx context.Context, clubID string, status InvitationStatus, params PaginationParams) ([]*Invitation, int, error)
}

// SignupFinalizer converts a redeemed invitation into a Member.
type SignupFinalizer interface {
	Redeem(ctx context.Context, code, email string) (*Member, error)
}

// InvitationEvent is published after invitations are issued or redeemed.
type InvitationEvent struct {
	Type         string    `json:"type"`
	Code         string    `json:"code"`
	ClubID       string    `json:"club_id"`
	TeamID       *string   `json:"team_id,omitempty"`
	IntendedRole Role      `json:"intended_role"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Invitation event types.
const (
	EventInvitationIssued   = "invitation.issued"
	EventInvitationRedeemed = "invitation.redeemed"
)

// EventPublisher fans invitation events out to other processes.
type EventPublisher interface {
	Publish(ctx context.Context, event InvitationEvent) error
}

// Provision copies the invitation's manifest onto m: club, team, role and any name the
// invitee did not supply.
func (inv *Invitation) Provision(m *Member) {
	m.ClubID = inv.ClubID
	m.TeamID = inv.TeamID
	m.Role = inv.IntendedRole
	if m.FirstName == "" && inv.FirstName != nil {
		m.FirstName = *inv.FirstName
	}
	if m.LastName == "" && inv.LastName != nil {
		m.LastName = *inv.LastName
	}
}

// Consume records one use; the invitation stays active only while uses remain.
func (inv *Invitation) Consume() {
	inv.UsesCount++
	inv.Active = inv.UsesCount < inv.MaxUses
}
