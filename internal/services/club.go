package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clubportal/internal/domain"
)

type clubService struct {
	clubRepo   domain.ClubRepository
	memberRepo domain.MemberRepository
	clock      domain.Clock
}

// NewClubService creates a ClubService with the given repositories.
func NewClubService(clubRepo domain.ClubRepository, memberRepo domain.MemberRepository, clock domain.Clock) domain.ClubService {
	if clock == nil {
		clock = time.Now
	}
	return &clubService{clubRepo: clubRepo, memberRepo: memberRepo, clock: clock}
}

func (s *clubService) CreateClub(ctx context.Context, name string, sports []string, maxCoach, maxViewOnly *int) (*domain.Club, error) {
	name = strings.TrimSpace(name)
	var problems []string
	if name == "" {
		problems = append(problems, "name is required")
	}
	tags := make([]string, 0, len(sports))
	for _, sport := range sports {
		if sport = strings.ToLower(strings.TrimSpace(sport)); sport != "" {
			tags = append(tags, sport)
		}
	}
	if len(tags) == 0 {
		problems = append(problems, "at least one sport is required")
	}
	if maxCoach != nil && *maxCoach < 0 {
		problems = append(problems, "max_coach_accounts must not be negative")
	}
	if maxViewOnly != nil && *maxViewOnly < 0 {
		problems = append(problems, "max_view_only_users must not be negative")
	}
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}

	club := domain.NewClub(name, tags, maxCoach, maxViewOnly, s.clock())
	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}
	return club, nil
}

func (s *clubService) GetClub(ctx context.Context, clubID string) (*domain.Club, error) {
	clubID, problems := normalizeClubID(clubID)
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	return club, nil
}

func (s *clubService) ListMembers(ctx context.Context, clubID string) ([]*domain.Member, error) {
	clubID, problems := normalizeClubID(clubID)
	if err := domain.NewValidationError(problems); err != nil {
		return nil, err
	}
	if _, err := s.clubRepo.GetByID(ctx, clubID); err != nil {
		return nil, fmt.Errorf("get club: %w", err)
	}
	members, err := s.memberRepo.ListByClubID(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}
