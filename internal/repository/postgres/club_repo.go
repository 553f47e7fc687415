package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clubportal/internal/domain"
)

type clubRepository struct {
	DB *sql.DB
}

// NewClubRepository returns a domain.ClubRepository implemented with Postgres.
func NewClubRepository(db *sql.DB) domain.ClubRepository {
	return &clubRepository{DB: db}
}

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	query := `
		INSERT INTO clubs (name, sports, max_coach_accounts, max_view_only_users, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.Name, pq.Array(c.Sports), c.MaxCoachAccounts, c.MaxViewOnlyUsers,
		string(c.Status), c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	return storeErr(err)
}

func (r *clubRepository) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	return getClub(ctx, r.DB, id)
}

func getClub(ctx context.Context, q queryer, id string) (*domain.Club, error) {
	query := `
		SELECT id, name, sports, max_coach_accounts, max_view_only_users, status, created_at, updated_at
		FROM clubs
		WHERE id = $1
	`
	c := &domain.Club{}
	var maxCoach, maxViewOnly sql.NullInt64
	var status string
	err := q.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, pq.Array(&c.Sports), &maxCoach, &maxViewOnly,
		&status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr(err)
	}
	c.MaxCoachAccounts = intPtr(maxCoach)
	c.MaxViewOnlyUsers = intPtr(maxViewOnly)
	c.Status = domain.ClubStatus(status)
	return c, nil
}
