package postgres

import (
	"context"
	"database/sql"

	"clubportal/internal/domain"
)

type memberRepository struct {
	DB *sql.DB
}

// NewMemberRepository returns a domain.MemberRepository implemented with Postgres.
func NewMemberRepository(db *sql.DB) domain.MemberRepository {
	return &memberRepository{DB: db}
}

func (r *memberRepository) ListByClubID(ctx context.Context, clubID string) ([]*domain.Member, error) {
	query := `
		SELECT id, club_id, team_id, email, first_name, last_name, role, created_at
		FROM members
		WHERE club_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	members := make([]*domain.Member, 0)
	for rows.Next() {
		m := &domain.Member{}
		var teamID sql.NullString
		var role string
		if err := rows.Scan(&m.ID, &m.ClubID, &teamID, &m.Email, &m.FirstName, &m.LastName, &role, &m.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		m.TeamID = strPtr(teamID)
		m.Role = domain.Role(role)
		members = append(members, m)
	}
	return members, storeErr(rows.Err())
}
