package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"clubportal/internal/domain"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	clubA       = "3f2b8c1e-7d4a-4e9b-8c2f-0a1b2c3d4e01"
	clubB       = "3f2b8c1e-7d4a-4e9b-8c2f-0a1b2c3d4e02"
	clubMissing = "3f2b8c1e-7d4a-4e9b-8c2f-0a1b2c3d4404"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) domain.Clock { return func() time.Time { return t } }

func intPtr(v int) *int { return &v }

// memStore is an in-memory InvitationStore. InClubTx holds one mutex for the whole
// callback and restores the invitation table when the callback fails.
type memStore struct {
	mu          sync.Mutex
	clubs       map[string]*domain.Club
	members     []*domain.Member
	invitations map[string]*domain.Invitation

	countErr    error // returned by CountSeatUsage
	createErr   error // returned by CreateInvitation
	conflictErr error // returned by FindInviteeConflicts
	countCalls  int
	txCalls     int
	// beforeCount runs inside CountSeatUsage; used to widen race windows.
	beforeCount func()
}

func newMemStore(clubs ...*domain.Club) *memStore {
	s := &memStore{
		clubs:       make(map[string]*domain.Club),
		invitations: make(map[string]*domain.Invitation),
	}
	for _, c := range clubs {
		s.clubs[c.ID] = c
	}
	return s
}

func (s *memStore) addMember(clubID string, role domain.Role, email string) {
	s.members = append(s.members, &domain.Member{ID: email, ClubID: clubID, Email: email, Role: role, CreatedAt: t0})
}

func (s *memStore) addInvitation(inv *domain.Invitation) {
	s.invitations[inv.Code] = inv
}

func (s *memStore) GetClub(ctx context.Context, clubID string) (*domain.Club, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getClub(clubID)
}

func (s *memStore) getClub(clubID string) (*domain.Club, error) {
	c, ok := s.clubs[clubID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) CountSeatUsage(ctx context.Context, clubID string, category domain.SeatCategory, now time.Time) (domain.SeatUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countSeatUsage(clubID, category, now)
}

func (s *memStore) countSeatUsage(clubID string, category domain.SeatCategory, now time.Time) (domain.SeatUsage, error) {
	s.countCalls++
	if s.beforeCount != nil {
		s.beforeCount()
	}
	if s.countErr != nil {
		return domain.SeatUsage{}, s.countErr
	}
	var u domain.SeatUsage
	for _, m := range s.members {
		if m.ClubID == clubID && m.Role.SeatCategory() == category {
			u.Members++
		}
	}
	for _, inv := range s.invitations {
		if inv.ClubID == clubID && inv.IntendedRole.SeatCategory() == category && domain.CheckRedeemable(inv, now).OK {
			u.Pending++
		}
	}
	return u, nil
}

func (s *memStore) InClubTx(ctx context.Context, clubID string, fn func(ctx context.Context, tx domain.ClubTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCalls++
	if _, ok := s.clubs[clubID]; !ok {
		return domain.ErrNotFound
	}
	snapshot := make(map[string]*domain.Invitation, len(s.invitations))
	for k, v := range s.invitations {
		snapshot[k] = v
	}
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.invitations = snapshot
		return err
	}
	return nil
}

func (s *memStore) GetInvitation(ctx context.Context, code string) (*domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *memStore) ListInvitations(ctx context.Context, clubID string, filter domain.InvitationFilter, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Invitation
	for _, inv := range s.invitations {
		if inv.ClubID != clubID {
			continue
		}
		if filter.Status != "" && inv.Status(filter.Now) != filter.Status {
			continue
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Code < out[j].Code
	})
	total := len(out)
	if params.PageSize > 0 {
		start := min(params.Offset(), total)
		end := min(start+params.PageSize, total)
		out = out[start:end]
	}
	return out, total, nil
}

func (s *memStore) RedeemInvitation(ctx context.Context, code string, member *domain.Member, now time.Time) (*domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if check := domain.CheckRedeemable(inv, now); !check.OK {
		return nil, &domain.RedeemError{Reason: check.Reason}
	}
	if !strings.EqualFold(inv.AdminEmail, member.Email) {
		return nil, domain.ErrForbidden
	}
	for _, m := range s.members {
		if m.ClubID == inv.ClubID && strings.EqualFold(m.Email, member.Email) {
			return nil, domain.ErrAlreadyMember
		}
	}
	inv.Consume()
	inv.Provision(member)
	s.members = append(s.members, member)
	cp := *inv
	return &cp, nil
}

func (s *memStore) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invitations)
}

type memTx struct {
	s *memStore
}

func (t *memTx) GetClub(ctx context.Context, clubID string) (*domain.Club, error) {
	return t.s.getClub(clubID)
}

func (t *memTx) CountSeatUsage(ctx context.Context, clubID string, category domain.SeatCategory, now time.Time) (domain.SeatUsage, error) {
	return t.s.countSeatUsage(clubID, category, now)
}

func (t *memTx) FindInviteeConflicts(ctx context.Context, clubID string, emails []string, now time.Time) (map[string]domain.InviteeConflict, error) {
	if t.s.conflictErr != nil {
		return nil, t.s.conflictErr
	}
	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[e] = true
	}
	conflicts := make(map[string]domain.InviteeConflict)
	for _, inv := range t.s.invitations {
		email := strings.ToLower(inv.AdminEmail)
		if inv.ClubID == clubID && wanted[email] && domain.CheckRedeemable(inv, now).OK {
			conflicts[email] = domain.ConflictPending
		}
	}
	for _, m := range t.s.members {
		email := strings.ToLower(m.Email)
		if m.ClubID == clubID && wanted[email] {
			conflicts[email] = domain.ConflictMember
		}
	}
	return conflicts, nil
}

func (t *memTx) CreateInvitation(ctx context.Context, inv *domain.Invitation) error {
	if t.s.createErr != nil {
		return t.s.createErr
	}
	if _, exists := t.s.invitations[inv.Code]; exists {
		return domain.ErrCodeCollision
	}
	cp := *inv
	t.s.invitations[inv.Code] = &cp
	return nil
}

// seqCodes hands out codes in order, then fails.
type seqCodes struct {
	mu    sync.Mutex
	codes []string
}

func (g *seqCodes) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.codes) == 0 {
		return "", errors.New("out of codes")
	}
	c := g.codes[0]
	g.codes = g.codes[1:]
	return c, nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.InvitationEmailData
	err  error
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.InvitationEvent
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event domain.InvitationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type countingMetrics struct {
	mu         sync.Mutex
	issued     map[domain.SeatCategory]int
	rejected   map[domain.SeatCategory]int
	collisions int
	redeemed   map[domain.Role]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{
		issued:   make(map[domain.SeatCategory]int),
		rejected: make(map[domain.SeatCategory]int),
		redeemed: make(map[domain.Role]int),
	}
}

func (m *countingMetrics) InvitationsIssued(c domain.SeatCategory, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued[c] += n
}

func (m *countingMetrics) QuotaRejected(c domain.SeatCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[c]++
}

func (m *countingMetrics) CodeCollision() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collisions++
}

func (m *countingMetrics) InvitationRedeemed(r domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redeemed[r]++
}

func testClub(id string, maxCoach, maxViewOnly *int) *domain.Club {
	return &domain.Club{ID: id, Name: "Club " + id, Sports: []string{"football"}, MaxCoachAccounts: maxCoach, MaxViewOnlyUsers: maxViewOnly, Status: domain.ClubStatusActive}
}

func pendingInvitation(code, clubID string, role domain.Role, createdAt time.Time) *domain.Invitation {
	return domain.NewInvitation(code, clubID, "Club "+clubID, nil, domain.Invitee{Email: strings.ToLower(code) + "@x.com", Role: role}, createdAt)
}
