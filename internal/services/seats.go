package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"clubportal/internal/domain"
)

var tracer = otel.Tracer("clubportal/internal/services")

type seatAccountant struct {
	store   domain.SeatReader
	clock   domain.Clock
	metrics domain.InvitationMetrics
	logger  *slog.Logger
}

// NewSeatAccountant returns a read-only SeatAccountant over store.
func NewSeatAccountant(store domain.SeatReader, clock domain.Clock, metrics domain.InvitationMetrics, logger *slog.Logger) domain.SeatAccountant {
	if clock == nil {
		clock = time.Now
	}
	if metrics == nil {
		metrics = domain.NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &seatAccountant{store: store, clock: clock, metrics: metrics, logger: logger}
}

// ValidateSeatRequest checks additional seats against current members plus pending
// invitations. It does not lock; two callers may both pass for the last seat. Issuance
// repeats the check inside the club transaction.
func (a *seatAccountant) ValidateSeatRequest(ctx context.Context, clubID string, category domain.SeatCategory, additional int) (domain.SeatCheck, error) {
	clubID, problems := normalizeClubID(clubID)
	if !category.Valid() {
		problems = append(problems, fmt.Sprintf("unknown seat category %q", category))
	}
	if additional < 0 {
		problems = append(problems, "requested seat count must not be negative")
	}
	if err := domain.NewValidationError(problems); err != nil {
		return domain.SeatCheck{}, err
	}
	if additional == 0 {
		return domain.SeatCheck{Valid: true}, nil
	}

	ctx, span := tracer.Start(ctx, "SeatAccountant.ValidateSeatRequest")
	defer span.End()
	span.SetAttributes(
		attribute.String("club.id", clubID),
		attribute.String("seat.category", string(category)),
		attribute.Int("seat.requested", additional),
	)

	club, err := a.store.GetClub(ctx, clubID)
	if err != nil {
		return domain.SeatCheck{}, fmt.Errorf("get club: %w", err)
	}
	qerr, err := checkSeats(ctx, a.store, club, category, additional, a.clock())
	if err != nil {
		return domain.SeatCheck{}, err
	}
	if qerr != nil {
		a.metrics.QuotaRejected(category)
		a.logger.WarnContext(ctx, "seat request rejected", "club_id", clubID, "category", category,
			"cap", qerr.Cap, "committed", qerr.Committed, "requested", additional)
		return domain.SeatCheck{Valid: false, Reason: qerr.Error()}, nil
	}
	return domain.SeatCheck{Valid: true}, nil
}

// Summary reports cap, members, pending and remaining seats per category.
func (a *seatAccountant) Summary(ctx context.Context, clubID string) ([]domain.SeatSummary, error) {
	clubID, problems := normalizeClubID(clubID)
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}
	club, err := a.store.GetClub(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	now := a.clock()
	out := make([]domain.SeatSummary, 0, len(domain.SeatCategories))
	for _, category := range domain.SeatCategories {
		usage, err := a.store.CountSeatUsage(ctx, club.ID, category, now)
		if err != nil {
			return nil, fmt.Errorf("count %s seats: %w", category, err)
		}
		s := domain.SeatSummary{
			Category: category,
			Cap:      club.Cap(category),
			Members:  usage.Members,
			Pending:  usage.Pending,
		}
		if s.Cap != nil {
			remaining := max(*s.Cap-usage.Total(), 0)
			s.Remaining = &remaining
		}
		out = append(out, s)
	}
	return out, nil
}

// checkSeats reads usage for category through r and evaluates the request. A non-nil
// QuotaError means the request does not fit.
func checkSeats(ctx context.Context, r domain.SeatReader, club *domain.Club, category domain.SeatCategory, additional int, now time.Time) (*domain.QuotaError, error) {
	limit := club.Cap(category)
	if limit == nil {
		return nil, nil
	}
	usage, err := r.CountSeatUsage(ctx, club.ID, category, now)
	if err != nil {
		return nil, fmt.Errorf("count %s seats: %w", category, err)
	}
	return evaluateSeats(category, limit, usage, additional), nil
}

// evaluateSeats is the quota rule: valid iff members + pending + additional <= cap.
func evaluateSeats(category domain.SeatCategory, limit *int, usage domain.SeatUsage, additional int) *domain.QuotaError {
	if limit == nil || usage.Total()+additional <= *limit {
		return nil
	}
	return &domain.QuotaError{
		Category:  category,
		Cap:       *limit,
		Committed: usage.Total(),
		Requested: additional,
	}
}
