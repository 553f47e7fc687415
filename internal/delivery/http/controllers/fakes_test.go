package controllers

import (
	"context"
	"io"
	"log/slog"

	"clubportal/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeClubService implements domain.ClubService for handler tests.
type fakeClubService struct {
	createErr       error
	getErr          error
	listMembersErr  error
	listMembers     []*domain.Member
	club            *domain.Club
	lastName        string
	lastSports      []string
	lastMaxCoach    *int
	lastMaxViewOnly *int
	lastClubID      string
}

func (f *fakeClubService) CreateClub(_ context.Context, name string, sports []string, maxCoach, maxViewOnly *int) (*domain.Club, error) {
	f.lastName, f.lastSports, f.lastMaxCoach, f.lastMaxViewOnly = name, sports, maxCoach, maxViewOnly
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Club{ID: "club-new", Name: name, Sports: sports, MaxCoachAccounts: maxCoach, MaxViewOnlyUsers: maxViewOnly, Status: domain.ClubStatusActive}, nil
}

func (f *fakeClubService) GetClub(_ context.Context, clubID string) (*domain.Club, error) {
	f.lastClubID = clubID
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.club, nil
}

func (f *fakeClubService) ListMembers(_ context.Context, clubID string) ([]*domain.Member, error) {
	f.lastClubID = clubID
	if f.listMembersErr != nil {
		return nil, f.listMembersErr
	}
	return f.listMembers, nil
}

// fakeSeatAccountant implements domain.SeatAccountant for handler tests.
type fakeSeatAccountant struct {
	check        domain.SeatCheck
	checkErr     error
	summary      []domain.SeatSummary
	summaryErr   error
	lastClubID   string
	lastCategory domain.SeatCategory
	lastCount    int
}

func (f *fakeSeatAccountant) ValidateSeatRequest(_ context.Context, clubID string, category domain.SeatCategory, additional int) (domain.SeatCheck, error) {
	f.lastClubID, f.lastCategory, f.lastCount = clubID, category, additional
	return f.check, f.checkErr
}

func (f *fakeSeatAccountant) Summary(_ context.Context, clubID string) ([]domain.SeatSummary, error) {
	f.lastClubID = clubID
	return f.summary, f.summaryErr
}

// fakeInvitationService implements domain.InvitationService for handler tests.
type fakeInvitationService struct {
	issueResult *domain.IssueResult
	issueErr    error
	lastIssue   domain.IssueRequest

	getResult *domain.Invitation
	getCheck  domain.RedeemCheck
	getErr    error
	lastCode  string

	listResult []*domain.Invitation
	listTotal  int
	listErr    error
	lastClubID string
	lastStatus domain.InvitationStatus
	lastParams domain.PaginationParams
}

func (f *fakeInvitationService) IssueInvitations(_ context.Context, req domain.IssueRequest) (*domain.IssueResult, error) {
	f.lastIssue = req
	return f.issueResult, f.issueErr
}

func (f *fakeInvitationService) GetInvitation(_ context.Context, code string) (*domain.Invitation, domain.RedeemCheck, error) {
	f.lastCode = code
	return f.getResult, f.getCheck, f.getErr
}

func (f *fakeInvitationService) ListInvitations(_ context.Context, clubID string, status domain.InvitationStatus, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	f.lastClubID, f.lastStatus, f.lastParams = clubID, status, params
	return f.listResult, f.listTotal, f.listErr
}

// fakeFinalizer implements domain.SignupFinalizer for handler tests.
type fakeFinalizer struct {
	member    *domain.Member
	err       error
	lastCode  string
	lastEmail string
}

func (f *fakeFinalizer) Redeem(_ context.Context, code, email string) (*domain.Member, error) {
	f.lastCode, f.lastEmail = code, email
	return f.member, f.err
}

func intPtr(v int) *int { return &v }
