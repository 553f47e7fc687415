package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"clubportal/internal/domain"
)

// maxCodeAttempts bounds regeneration after a code collision.
const maxCodeAttempts = 5

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// InvitationServiceDeps holds the collaborators of the invitation service. Emails,
// Events and Metrics are optional.
type InvitationServiceDeps struct {
	Store         domain.InvitationStore
	Codes         domain.CodeGenerator
	Clock         domain.Clock
	Emails        domain.EmailService
	Events        domain.EventPublisher
	Metrics       domain.InvitationMetrics
	Logger        *slog.Logger
	SignupBaseURL string
}

type invitationService struct {
	store         domain.InvitationStore
	codes         domain.CodeGenerator
	clock         domain.Clock
	emails        domain.EmailService
	events        domain.EventPublisher
	metrics       domain.InvitationMetrics
	logger        *slog.Logger
	signupBaseURL string
}

// NewInvitationService creates the invitation issuer.
func NewInvitationService(deps InvitationServiceDeps) domain.InvitationService {
	s := &invitationService{
		store:         deps.Store,
		codes:         deps.Codes,
		clock:         deps.Clock,
		emails:        deps.Emails,
		events:        deps.Events,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		signupBaseURL: deps.SignupBaseURL,
	}
	if s.codes == nil {
		s.codes = NewCodeGenerator()
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.metrics == nil {
		s.metrics = domain.NopMetrics{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// IssueInvitations validates the batch, then checks every seat category and writes every
// invitation inside one club transaction. Either the whole batch is persisted or none of it.
func (s *invitationService) IssueInvitations(ctx context.Context, req domain.IssueRequest) (*domain.IssueResult, error) {
	req, err := normalizeIssueRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "InvitationService.IssueInvitations")
	defer span.End()
	span.SetAttributes(
		attribute.String("club.id", req.ClubID),
		attribute.Int("invitations.requested", len(req.Invitees)),
	)

	demand := make(map[domain.SeatCategory]int)
	for _, inv := range req.Invitees {
		if c := inv.Role.SeatCategory(); c != domain.SeatNone {
			demand[c]++
		}
	}

	var issued []*domain.Invitation
	err = s.store.InClubTx(ctx, req.ClubID, func(ctx context.Context, tx domain.ClubTx) error {
		issued = issued[:0]
		club, err := tx.GetClub(ctx, req.ClubID)
		if err != nil {
			return fmt.Errorf("get club: %w", err)
		}
		now := s.clock()
		if err := s.checkInviteeConflicts(ctx, tx, req, now); err != nil {
			return err
		}
		for _, category := range domain.SeatCategories {
			n := demand[category]
			if n == 0 {
				continue
			}
			qerr, err := checkSeats(ctx, tx, club, category, n, now)
			if err != nil {
				return err
			}
			if qerr != nil {
				return qerr
			}
		}
		for _, invitee := range req.Invitees {
			inv, err := s.createInvitation(ctx, tx, req, invitee, now)
			if err != nil {
				return err
			}
			issued = append(issued, inv)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "issue invitations")
		var qerr *domain.QuotaError
		if errors.As(err, &qerr) {
			s.metrics.QuotaRejected(qerr.Category)
			s.logger.WarnContext(ctx, "invitation batch rejected", "club_id", req.ClubID,
				"category", qerr.Category, "cap", qerr.Cap, "committed", qerr.Committed, "requested", qerr.Requested)
			return nil, err
		}
		return nil, fmt.Errorf("issue invitations: %w", err)
	}

	for category, n := range demand {
		s.metrics.InvitationsIssued(category, n)
	}
	s.logger.InfoContext(ctx, "invitations issued", "club_id", req.ClubID, "count", len(issued))
	s.notify(ctx, issued)

	result := &domain.IssueResult{
		Invitations: make([]domain.IssuedInvitation, 0, len(issued)),
		Persisted:   len(issued),
	}
	for _, inv := range issued {
		result.Invitations = append(result.Invitations, domain.IssuedInvitation{
			Code:      inv.Code,
			Email:     inv.AdminEmail,
			Role:      inv.IntendedRole,
			ExpiresAt: inv.ExpiresAt,
		})
	}
	return result, nil
}

// checkInviteeConflicts rejects the batch when an invitee is already a member of the club
// or still holds a redeemable invitation to it. Each would take a second seat for one person.
func (s *invitationService) checkInviteeConflicts(ctx context.Context, tx domain.ClubTx, req domain.IssueRequest, now time.Time) error {
	emails := make([]string, len(req.Invitees))
	for i, inv := range req.Invitees {
		emails[i] = inv.Email
	}
	conflicts, err := tx.FindInviteeConflicts(ctx, req.ClubID, emails, now)
	if err != nil {
		return fmt.Errorf("find invitee conflicts: %w", err)
	}
	var problems []string
	for i, inv := range req.Invitees {
		switch conflicts[inv.Email] {
		case domain.ConflictMember:
			problems = append(problems, fmt.Sprintf("invitee %d: %q is already a member of this club", i+1, inv.Email))
		case domain.ConflictPending:
			problems = append(problems, fmt.Sprintf("invitee %d: %q already has a pending invitation", i+1, inv.Email))
		}
	}
	return domain.NewValidationError(problems)
}

// createInvitation writes one invitation, regenerating the code on collision.
func (s *invitationService) createInvitation(ctx context.Context, tx domain.ClubTx, req domain.IssueRequest, invitee domain.Invitee, now time.Time) (*domain.Invitation, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.codes.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate invitation code: %w", err)
		}
		inv := domain.NewInvitation(code, req.ClubID, req.ClubName, req.TeamID, invitee, now)
		err = tx.CreateInvitation(ctx, inv)
		if err == nil {
			return inv, nil
		}
		if !errors.Is(err, domain.ErrCodeCollision) {
			return nil, fmt.Errorf("create invitation: %w", err)
		}
		s.metrics.CodeCollision()
		s.logger.WarnContext(ctx, "invitation code collision, regenerating", "attempt", attempt+1)
	}
	return nil, fmt.Errorf("create invitation after %d attempts: %w", maxCodeAttempts, domain.ErrCodeCollision)
}

// notify sends emails and events for a committed batch. Failures are logged only.
func (s *invitationService) notify(ctx context.Context, issued []*domain.Invitation) {
	for _, inv := range issued {
		if s.emails != nil {
			data := &domain.InvitationEmailData{
				Email:     inv.AdminEmail,
				ClubName:  inv.ClubName,
				Role:      inv.IntendedRole,
				Code:      inv.Code,
				SignupURL: s.signupURL(inv.Code),
				ExpiresAt: inv.ExpiresAt,
			}
			if inv.FirstName != nil {
				data.FirstName = *inv.FirstName
			}
			if err := s.emails.SendInvitation(ctx, data); err != nil {
				s.logger.ErrorContext(ctx, "send invitation email", "club_id", inv.ClubID, "email", inv.AdminEmail, "err", err)
			}
		}
		if s.events != nil {
			event := domain.InvitationEvent{
				Type:         domain.EventInvitationIssued,
				Code:         inv.Code,
				ClubID:       inv.ClubID,
				TeamID:       inv.TeamID,
				IntendedRole: inv.IntendedRole,
				Email:        inv.AdminEmail,
				ExpiresAt:    inv.ExpiresAt,
				OccurredAt:   inv.CreatedAt,
			}
			if err := s.events.Publish(ctx, event); err != nil {
				s.logger.ErrorContext(ctx, "publish invitation event", "club_id", inv.ClubID, "err", err)
			}
		}
	}
}

func (s *invitationService) signupURL(code string) string {
	if s.signupBaseURL == "" {
		return ""
	}
	u, err := url.Parse(s.signupBaseURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("code", code)
	u.RawQuery = q.Encode()
	return u.String()
}

// GetInvitation looks a code up and evaluates it against the expiry policy.
func (s *invitationService) GetInvitation(ctx context.Context, code string) (*domain.Invitation, domain.RedeemCheck, error) {
	code = normalizeCode(code)
	if !isInvitationCode(code) {
		return nil, domain.RedeemCheck{}, domain.NewValidationError([]string{"malformed invitation code"})
	}
	inv, err := s.store.GetInvitation(ctx, code)
	if err != nil {
		return nil, domain.RedeemCheck{}, err
	}
	return inv, domain.CheckRedeemable(inv, s.clock()), nil
}

// ListInvitations lists a club's invitations, optionally narrowed to one derived status.
func (s *invitationService) ListInvitations(ctx context.Context, clubID string, status domain.InvitationStatus, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	clubID, problems := normalizeClubID(clubID)
	if status != "" && !status.Valid() {
		problems = append(problems, fmt.Sprintf("unknown invitation status %q", status))
	}
	if err := domain.NewValidationError(problems); err != nil {
		return nil, 0, err
	}
	invs, total, err := s.store.ListInvitations(ctx, clubID, domain.InvitationFilter{Status: status, Now: s.clock()}, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	return invs, total, nil
}

// normalizeClubID returns the canonical form of a club id. Club ids are UUIDs; anything
// else is reported before it reaches the store.
func normalizeClubID(clubID string) (string, []string) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return "", []string{"club id is required"}
	}
	id, err := uuid.Parse(clubID)
	if err != nil {
		return clubID, []string{fmt.Sprintf("malformed club id %q", clubID)}
	}
	return id.String(), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeIssueRequest trims the batch and rejects it before any I/O if anything is malformed.
func normalizeIssueRequest(req domain.IssueRequest) (domain.IssueRequest, error) {
	var problems []string
	req.ClubID, problems = normalizeClubID(req.ClubID)
	req.ClubName = strings.TrimSpace(req.ClubName)
	if req.ClubName == "" {
		problems = append(problems, "club name is required")
	}
	if req.TeamID != nil {
		team := strings.TrimSpace(*req.TeamID)
		if team == "" {
			req.TeamID = nil
		} else {
			req.TeamID = &team
		}
	}
	if len(req.Invitees) == 0 {
		problems = append(problems, "at least one invitee is required")
	}
	seen := make(map[string]struct{}, len(req.Invitees))
	invitees := make([]domain.Invitee, 0, len(req.Invitees))
	for i, inv := range req.Invitees {
		inv.Email = normalizeEmail(inv.Email)
		inv.FirstName = strings.TrimSpace(inv.FirstName)
		inv.LastName = strings.TrimSpace(inv.LastName)
		if !emailRegexp.MatchString(inv.Email) {
			problems = append(problems, fmt.Sprintf("invitee %d: invalid email %q", i+1, inv.Email))
		} else if _, dup := seen[inv.Email]; dup {
			problems = append(problems, fmt.Sprintf("invitee %d: duplicate email %q", i+1, inv.Email))
		}
		seen[inv.Email] = struct{}{}
		if !inv.Role.Valid() {
			problems = append(problems, fmt.Sprintf("invitee %d: unknown role %q", i+1, inv.Role))
		}
		invitees = append(invitees, inv)
	}
	req.Invitees = invitees
	if err := domain.NewValidationError(problems); err != nil {
		return domain.IssueRequest{}, err
	}
	return req, nil
}
