package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clubportal/internal/domain"
)

type signupFinalizer struct {
	store   domain.InvitationStore
	clock   domain.Clock
	events  domain.EventPublisher
	metrics domain.InvitationMetrics
	logger  *slog.Logger
}

// NewSignupFinalizer returns the reference finalizer: it redeems a code exactly once and
// creates the member the invitation describes. events and metrics may be nil.
func NewSignupFinalizer(store domain.InvitationStore, clock domain.Clock, events domain.EventPublisher, metrics domain.InvitationMetrics, logger *slog.Logger) domain.SignupFinalizer {
	if clock == nil {
		clock = time.Now
	}
	if metrics == nil {
		metrics = domain.NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &signupFinalizer{store: store, clock: clock, events: events, metrics: metrics, logger: logger}
}

// Redeem consumes code for email. The store re-checks redeemability under a row lock, so
// two concurrent redemptions of one code yield exactly one member.
func (f *signupFinalizer) Redeem(ctx context.Context, code, email string) (*domain.Member, error) {
	code = normalizeCode(code)
	email = normalizeEmail(email)
	var problems []string
	if !isInvitationCode(code) {
		problems = append(problems, "malformed invitation code")
	}
	if !emailRegexp.MatchString(email) {
		problems = append(problems, "invalid email format")
	}
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}

	now := f.clock()
	member := &domain.Member{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: now,
	}
	inv, err := f.store.RedeemInvitation(ctx, code, member, now)
	if err != nil {
		var rerr *domain.RedeemError
		if errors.As(err, &rerr) {
			f.logger.InfoContext(ctx, "invitation not redeemable", "code", code, "reason", rerr.Reason)
			return nil, err
		}
		return nil, fmt.Errorf("redeem invitation: %w", err)
	}

	f.metrics.InvitationRedeemed(member.Role)
	f.logger.InfoContext(ctx, "invitation redeemed", "club_id", member.ClubID, "member_id", member.ID, "role", member.Role)
	if f.events != nil {
		event := domain.InvitationEvent{
			Type:         domain.EventInvitationRedeemed,
			Code:         inv.Code,
			ClubID:       inv.ClubID,
			TeamID:       inv.TeamID,
			IntendedRole: inv.IntendedRole,
			Email:        member.Email,
			ExpiresAt:    inv.ExpiresAt,
			OccurredAt:   now,
		}
		if err := f.events.Publish(ctx, event); err != nil {
			f.logger.ErrorContext(ctx, "publish redemption event", "club_id", inv.ClubID, "err", err)
		}
	}
	return member, nil
}
