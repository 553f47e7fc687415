package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"clubportal/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type issuerFixture struct {
	store   *memStore
	codes   *seqCodes
	emails  *fakeEmailService
	events  *fakePublisher
	metrics *countingMetrics
	svc     domain.InvitationService
}

func newIssuerFixture(store *memStore, now time.Time, codes ...string) *issuerFixture {
	f := &issuerFixture{
		store:   store,
		codes:   &seqCodes{codes: codes},
		emails:  &fakeEmailService{},
		events:  &fakePublisher{},
		metrics: newCountingMetrics(),
	}
	f.svc = NewInvitationService(InvitationServiceDeps{
		Store:         store,
		Codes:         f.codes,
		Clock:         fixedClock(now),
		Emails:        f.emails,
		Events:        f.events,
		Metrics:       f.metrics,
		Logger:        testLogger,
		SignupBaseURL: "https://portal.example.com/signup",
	})
	return f
}

func batch(clubID string, invitees ...domain.Invitee) domain.IssueRequest {
	return domain.IssueRequest{ClubID: clubID, ClubName: "Club " + clubID, Invitees: invitees}
}

func invitee(email string, role domain.Role) domain.Invitee {
	return domain.Invitee{Email: email, Role: role}
}

func TestIssueInvitations_PersistsBatch(t *testing.T) {
	store := newMemStore(testClub(clubA, intPtr(2), intPtr(5)))
	f := newIssuerFixture(store, t0, "AAAA0001", "AAAA0002")
	team := " u12 "

	req := batch(clubA,
		domain.Invitee{Email: " Ada@X.com ", FirstName: "Ada", Role: domain.RoleCoach},
		invitee("bob@x.com", domain.RoleViewOnly),
	)
	req.TeamID = &team
	res, err := f.svc.IssueInvitations(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Persisted)
	require.Len(t, res.Invitations, 2)
	assert.Equal(t, domain.IssuedInvitation{Code: "AAAA0001", Email: "ada@x.com", Role: domain.RoleCoach, ExpiresAt: t0.Add(7 * 24 * time.Hour)}, res.Invitations[0])

	inv, err := store.GetInvitation(context.Background(), "AAAA0001")
	require.NoError(t, err)
	assert.Equal(t, clubA, inv.ClubID)
	require.NotNil(t, inv.TeamID)
	assert.Equal(t, "u12", *inv.TeamID)
	assert.Equal(t, 0, inv.UsesCount)
	assert.Equal(t, 1, inv.MaxUses)
	assert.True(t, inv.Active)
	require.NotNil(t, inv.FirstName)
	assert.Equal(t, "Ada", *inv.FirstName)

	require.Len(t, f.emails.sent, 2)
	assert.Equal(t, "https://portal.example.com/signup?code=AAAA0001", f.emails.sent[0].SignupURL)
	assert.Equal(t, "Ada", f.emails.sent[0].FirstName)
	require.Len(t, f.events.events, 2)
	assert.Equal(t, domain.EventInvitationIssued, f.events.events[1].Type)
	assert.Equal(t, 1, f.metrics.issued[domain.SeatCoach])
	assert.Equal(t, 1, f.metrics.issued[domain.SeatViewOnly])
}

func TestIssueInvitations_BatchAtomicity(t *testing.T) {
	store := newMemStore(testClub(clubA, intPtr(2), intPtr(2)))
	f := newIssuerFixture(store, t0, "AAAA0001", "AAAA0002", "AAAA0003", "AAAA0004")

	_, err := f.svc.IssueInvitations(context.Background(), batch(clubA,
		invitee("c1@x.com", domain.RoleCoach),
		invitee("v1@x.com", domain.RoleViewOnly),
		invitee("v2@x.com", domain.RoleViewOnly),
		invitee("v3@x.com", domain.RoleViewOnly),
	))

	var qerr *domain.QuotaError
	require.ErrorAs(t, err, &qerr)
	assert.Equal(t, domain.SeatViewOnly, qerr.Category)
	assert.Equal(t, 2, qerr.Cap)
	assert.Equal(t, 3, qerr.Requested)
	assert.Contains(t, err.Error(), "view-only users")
	assert.Equal(t, 0, store.pendingCount(), "no invitation from a rejected batch is persisted")
	assert.Empty(t, f.emails.sent)
	assert.Empty(t, f.events.events)
	assert.Equal(t, 1, f.metrics.rejected[domain.SeatViewOnly])
}

func TestIssueInvitations_StoreFailureRollsBack(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	f := newIssuerFixture(store, t0, "AAAA0001", "AAAA0002")
	store.createErr = fmt.Errorf("%w: connection reset", domain.ErrStoreUnavailable)

	res, err := f.svc.IssueInvitations(context.Background(), batch(clubA,
		invitee("a@x.com", domain.RoleCoach),
		invitee("b@x.com", domain.RoleCoach),
	))
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Nil(t, res)
	assert.Equal(t, 0, store.pendingCount())
}

func TestIssueInvitations_CollisionRegenerates(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	store.addInvitation(pendingInvitation("TAKEN001", clubA, domain.RoleCoach, t0))
	f := newIssuerFixture(store, t0, "TAKEN001", "FRESH001")

	res, err := f.svc.IssueInvitations(context.Background(), batch(clubA, invitee("a@x.com", domain.RoleCoach)))
	require.NoError(t, err)
	assert.Equal(t, "FRESH001", res.Invitations[0].Code)
	assert.Equal(t, 1, f.metrics.collisions)

	taken, err := store.GetInvitation(context.Background(), "TAKEN001")
	require.NoError(t, err)
	assert.NotEqual(t, "a@x.com", taken.AdminEmail, "existing invitation is never overwritten")
}

func TestIssueInvitations_CollisionGivesUp(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	store.addInvitation(pendingInvitation("TAKEN001", clubA, domain.RoleCoach, t0))
	codes := make([]string, maxCodeAttempts)
	for i := range codes {
		codes[i] = "TAKEN001"
	}
	f := newIssuerFixture(store, t0, codes...)

	_, err := f.svc.IssueInvitations(context.Background(), batch(clubA, invitee("a@x.com", domain.RoleCoach)))
	require.ErrorIs(t, err, domain.ErrCodeCollision)
	assert.Equal(t, maxCodeAttempts, f.metrics.collisions)
	assert.Equal(t, 1, store.pendingCount())
}

func TestIssueInvitations_Validation(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	f := newIssuerFixture(store, t0, "AAAA0001")

	tests := []struct {
		name string
		req  domain.IssueRequest
		want string
	}{
		{"missing club id", batch("", invitee("a@x.com", domain.RoleCoach)), "club id is required"},
		{"malformed club id", batch("abc", invitee("a@x.com", domain.RoleCoach)), `malformed club id "abc"`},
		{"empty batch", batch(clubA), "at least one invitee"},
		{"bad email", batch(clubA, invitee("not-an-email", domain.RoleCoach)), "invalid email"},
		{"duplicate email", batch(clubA, invitee("a@x.com", domain.RoleCoach), invitee("A@x.com", domain.RoleViewOnly)), "duplicate email"},
		{"unknown role", batch(clubA, invitee("a@x.com", domain.Role("owner"))), "unknown role"},
		{"super admin is not invitable", batch(clubA, invitee("a@x.com", domain.RoleSuperAdmin)), "unknown role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.IssueInvitations(context.Background(), tt.req)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
	assert.Equal(t, 0, store.txCalls, "validation happens before any I/O")
}

func TestIssueInvitations_RejectsInviteesAlreadyHoldingASeat(t *testing.T) {
	store := newMemStore(testClub(clubA, intPtr(3), nil))
	store.addMember(clubA, domain.RoleCoach, "x@x.com")
	f := newIssuerFixture(store, t0, "AAAA0001", "AAAA0002", "AAAA0003")
	ctx := context.Background()
	acc := NewSeatAccountant(store, fixedClock(t0), nil, testLogger)

	_, err := f.svc.IssueInvitations(ctx, batch(clubA,
		invitee("new@x.com", domain.RoleCoach),
		invitee("X@x.com", domain.RoleCoach),
	))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{`invitee 2: "x@x.com" is already a member of this club`}, verr.Problems)
	assert.Equal(t, 0, store.pendingCount())

	_, err = f.svc.IssueInvitations(ctx, batch(clubA, invitee("y@x.com", domain.RoleCoach)))
	require.NoError(t, err)

	_, err = f.svc.IssueInvitations(ctx, batch(clubA, invitee(" Y@x.com ", domain.RoleViewOnly)))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{`invitee 1: "y@x.com" already has a pending invitation`}, verr.Problems)
	assert.NotErrorIs(t, err, domain.ErrQuotaExceeded)

	usage, err := store.CountSeatUsage(ctx, clubA, domain.SeatCoach, t0)
	require.NoError(t, err)
	assert.Equal(t, domain.SeatUsage{Members: 1, Pending: 1}, usage, "one seat per person")

	check, err := acc.ValidateSeatRequest(ctx, clubA, domain.SeatCoach, 1)
	require.NoError(t, err)
	assert.True(t, check.Valid)
}

func TestIssueInvitations_ExpiredInvitationDoesNotBlockReinvite(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	old := domain.NewInvitation("OLDCODE1", clubA, "Club", nil, invitee("z@x.com", domain.RoleCoach), t0.Add(-8*24*time.Hour))
	store.addInvitation(old)
	f := newIssuerFixture(store, t0, "AAAA0001")

	res, err := f.svc.IssueInvitations(context.Background(), batch(clubA, invitee("z@x.com", domain.RoleCoach)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Persisted)
}

func TestIssueInvitations_ConflictLookupFailure(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	store.conflictErr = fmt.Errorf("%w: timeout", domain.ErrStoreUnavailable)
	f := newIssuerFixture(store, t0, "AAAA0001")

	_, err := f.svc.IssueInvitations(context.Background(), batch(clubA, invitee("a@x.com", domain.RoleCoach)))
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, 0, store.pendingCount())
}

func TestIssueInvitations_UnknownClub(t *testing.T) {
	f := newIssuerFixture(newMemStore(), t0, "AAAA0001")
	_, err := f.svc.IssueInvitations(context.Background(), batch(clubMissing, invitee("a@x.com", domain.RoleCoach)))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIssueInvitations_ClubAdminConsumesNoSeat(t *testing.T) {
	store := newMemStore(testClub(clubA, intPtr(0), intPtr(0)))
	f := newIssuerFixture(store, t0, "AAAA0001")

	res, err := f.svc.IssueInvitations(context.Background(), batch(clubA, invitee("boss@x.com", domain.RoleClubAdmin)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Persisted)
}

func TestIssueInvitations_NotificationFailuresDoNotFailBatch(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	f := newIssuerFixture(store, t0, "AAAA0001")
	f.emails.err = errors.New("ses throttled")
	f.events.err = errors.New("nats down")

	res, err := f.svc.IssueInvitations(context.Background(), batch(clubA, invitee("a@x.com", domain.RoleCoach)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Persisted)
	assert.Equal(t, 1, store.pendingCount())
}

func TestIssueInvitations_ConcurrentLastSeat(t *testing.T) {
	store := newMemStore(testClub(clubA, intPtr(3), nil))
	store.addMember(clubA, domain.RoleCoach, "c1@x.com")
	store.addMember(clubA, domain.RoleCoach, "c2@x.com")
	f := newIssuerFixture(store, t0, "AAAA0001", "AAAA0002")

	start := make(chan struct{})
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.IssueInvitations(context.Background(), batch(clubA, invitee(fmt.Sprintf("new%d@x.com", i), domain.RoleCoach)))
		}(i)
	}
	close(start)
	wg.Wait()

	admitted := 0
	for _, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	}
	assert.Equal(t, 1, admitted)
	assert.Equal(t, 1, store.pendingCount())
}

func TestGetInvitation(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil))
	store.addInvitation(pendingInvitation("ABCD1234", clubA, domain.RoleCoach, t0))
	ctx := context.Background()

	f := newIssuerFixture(store, t0.Add(time.Hour))
	inv, check, err := f.svc.GetInvitation(ctx, " abcd1234 ")
	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", inv.Code)
	assert.Equal(t, domain.RedeemCheck{OK: true, Reason: domain.ReasonOK}, check)

	f = newIssuerFixture(store, t0.Add(7*24*time.Hour+time.Second))
	_, check, err = f.svc.GetInvitation(ctx, "ABCD1234")
	require.NoError(t, err)
	assert.Equal(t, domain.RedeemCheck{OK: false, Reason: domain.ReasonExpired}, check)

	_, _, err = f.svc.GetInvitation(ctx, "ZZZZ9999")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = f.svc.GetInvitation(ctx, "short")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListInvitations(t *testing.T) {
	store := newMemStore(testClub(clubA, nil, nil), testClub(clubB, nil, nil))
	store.addInvitation(pendingInvitation("NEWEST01", clubA, domain.RoleCoach, t0))
	store.addInvitation(pendingInvitation("OLDER001", clubA, domain.RoleViewOnly, t0.Add(-time.Hour)))
	store.addInvitation(pendingInvitation("EXPIRED1", clubA, domain.RoleCoach, t0.Add(-8*24*time.Hour)))
	store.addInvitation(pendingInvitation("OTHER001", clubB, domain.RoleCoach, t0))
	f := newIssuerFixture(store, t0)
	ctx := context.Background()

	all, total, err := f.svc.ListInvitations(ctx, clubA, "", domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 2)
	assert.Equal(t, "NEWEST01", all[0].Code)
	assert.Equal(t, "OLDER001", all[1].Code)

	expired, total, err := f.svc.ListInvitations(ctx, clubA, domain.StatusExpired, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "EXPIRED1", expired[0].Code)

	_, _, err = f.svc.ListInvitations(ctx, clubA, domain.InvitationStatus("pending"), domain.PaginationParams{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = f.svc.ListInvitations(ctx, "abc", "", domain.PaginationParams{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
