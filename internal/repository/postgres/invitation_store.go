package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"clubportal/internal/domain"
)

const invitationColumns = `code, club_id, club_name, team_id, intended_role, admin_email, first_name, last_name,
		max_uses, uses_count, active, created_at, expires_at`

type invitationStore struct {
	DB *sql.DB
}

// NewInvitationStore returns a domain.InvitationStore backed by Postgres. Club-scoped
// transactions lock the club row, which serializes concurrent issuers of the same club.
func NewInvitationStore(db *sql.DB) domain.InvitationStore {
	return &invitationStore{DB: db}
}

func (s *invitationStore) GetClub(ctx context.Context, clubID string) (*domain.Club, error) {
	return getClub(ctx, s.DB, clubID)
}

func (s *invitationStore) CountSeatUsage(ctx context.Context, clubID string, category domain.SeatCategory, now time.Time) (domain.SeatUsage, error) {
	return countSeatUsage(ctx, s.DB, clubID, category, now)
}

func (s *invitationStore) InClubTx(ctx context.Context, clubID string, fn func(ctx context.Context, tx domain.ClubTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked string
	err = tx.QueryRowContext(ctx, `SELECT id FROM clubs WHERE id = $1 FOR UPDATE`, clubID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return storeErr(err)
	}

	if err := fn(ctx, &clubTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	committed = true
	return nil
}

func (s *invitationStore) GetInvitation(ctx context.Context, code string) (*domain.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM referral_codes WHERE code = $1`
	inv, err := scanInvitation(s.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr(err)
	}
	return inv, nil
}

func (s *invitationStore) ListInvitations(ctx context.Context, clubID string, filter domain.InvitationFilter, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	where, args := invitationFilterClause(clubID, filter)

	var total int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM referral_codes WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, storeErr(err)
	}

	query := `SELECT ` + invitationColumns + ` FROM referral_codes WHERE ` + where + ` ORDER BY created_at DESC, code`
	if params.PageSize > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
		args = append(args, params.PageSize, params.Offset())
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	defer rows.Close()

	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, storeErr(err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr(err)
	}
	return invs, total, nil
}

// invitationFilterClause translates a derived status into the equivalent predicate over
// active, uses_count and expires_at.
func invitationFilterClause(clubID string, filter domain.InvitationFilter) (string, []any) {
	clauses := []string{"club_id = $1"}
	args := []any{clubID}
	switch filter.Status {
	case domain.StatusActive:
		clauses = append(clauses, "uses_count < max_uses", "active", "expires_at > $2")
		args = append(args, filter.Now)
	case domain.StatusExpired:
		clauses = append(clauses, "uses_count < max_uses", "active", "expires_at <= $2")
		args = append(args, filter.Now)
	case domain.StatusRedeemed:
		clauses = append(clauses, "uses_count >= max_uses")
	case domain.StatusDeactivated:
		clauses = append(clauses, "uses_count < max_uses", "NOT active")
	}
	return strings.Join(clauses, " AND "), args
}

func (s *invitationStore) RedeemInvitation(ctx context.Context, code string, member *domain.Member, now time.Time) (*domain.Invitation, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	query := `SELECT ` + invitationColumns + ` FROM referral_codes WHERE code = $1 FOR UPDATE`
	inv, err := scanInvitation(tx.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr(err)
	}
	if check := domain.CheckRedeemable(inv, now); !check.OK {
		return nil, &domain.RedeemError{Reason: check.Reason}
	}
	if !strings.EqualFold(inv.AdminEmail, member.Email) {
		return nil, fmt.Errorf("invitation was issued to a different email: %w", domain.ErrForbidden)
	}

	inv.Consume()
	if _, err := tx.ExecContext(ctx, `UPDATE referral_codes SET uses_count = $2, active = $3 WHERE code = $1`,
		inv.Code, inv.UsesCount, inv.Active); err != nil {
		return nil, storeErr(err)
	}

	inv.Provision(member)
	insert := `
		INSERT INTO members (id, club_id, team_id, email, first_name, last_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.ExecContext(ctx, insert, member.ID, member.ClubID, member.TeamID, member.Email,
		member.FirstName, member.LastName, string(member.Role), member.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyMember
		}
		return nil, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr(err)
	}
	committed = true
	return inv, nil
}

// clubTx is the unit of work handed to InClubTx callbacks.
type clubTx struct {
	tx *sql.Tx
}

func (t *clubTx) GetClub(ctx context.Context, clubID string) (*domain.Club, error) {
	return getClub(ctx, t.tx, clubID)
}

func (t *clubTx) CountSeatUsage(ctx context.Context, clubID string, category domain.SeatCategory, now time.Time) (domain.SeatUsage, error) {
	return countSeatUsage(ctx, t.tx, clubID, category, now)
}

func (t *clubTx) CreateInvitation(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO referral_codes (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (code) DO NOTHING
	`
	res, err := t.tx.ExecContext(ctx, query, inv.Code, inv.ClubID, inv.ClubName, inv.TeamID, string(inv.IntendedRole),
		inv.AdminEmail, inv.FirstName, inv.LastName, inv.MaxUses, inv.UsesCount, inv.Active, inv.CreatedAt, inv.ExpiresAt)
	if err != nil {
		return storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if n == 0 {
		return domain.ErrCodeCollision
	}
	return nil
}

func (t *clubTx) FindInviteeConflicts(ctx context.Context, clubID string, emails []string, now time.Time) (map[string]domain.InviteeConflict, error) {
	conflicts := make(map[string]domain.InviteeConflict)
	if len(emails) == 0 {
		return conflicts, nil
	}
	query := `
		SELECT lower(email), 'member' FROM members
			WHERE club_id = $1 AND lower(email) = ANY($2)
		UNION ALL
		SELECT lower(admin_email), 'pending' FROM referral_codes
			WHERE club_id = $1 AND lower(admin_email) = ANY($2)
			AND active AND uses_count < max_uses AND expires_at > $3
	`
	rows, err := t.tx.QueryContext(ctx, query, clubID, pq.Array(emails), now)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var email, kind string
		if err := rows.Scan(&email, &kind); err != nil {
			return nil, storeErr(err)
		}
		if conflicts[email] != domain.ConflictMember {
			conflicts[email] = domain.InviteeConflict(kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return conflicts, nil
}

// countSeatUsage reads members and redeemable invitations in a single statement so both
// counts come from one snapshot; a redemption committing in between cannot be missed or
// counted twice.
func countSeatUsage(ctx context.Context, q queryer, clubID string, category domain.SeatCategory, now time.Time) (domain.SeatUsage, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM members WHERE club_id = $1 AND role = ANY($2)),
			(SELECT COUNT(*) FROM referral_codes
				WHERE club_id = $1 AND intended_role = ANY($2)
				AND active AND uses_count < max_uses AND expires_at > $3)
	`
	var usage domain.SeatUsage
	if err := q.QueryRowContext(ctx, query, clubID, rolesArg(category), now).Scan(&usage.Members, &usage.Pending); err != nil {
		return domain.SeatUsage{}, storeErr(err)
	}
	return usage, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var teamID, firstName, lastName sql.NullString
	var role string
	err := row.Scan(&inv.Code, &inv.ClubID, &inv.ClubName, &teamID, &role, &inv.AdminEmail, &firstName, &lastName,
		&inv.MaxUses, &inv.UsesCount, &inv.Active, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		return nil, err
	}
	inv.TeamID = strPtr(teamID)
	inv.FirstName = strPtr(firstName)
	inv.LastName = strPtr(lastName)
	inv.IntendedRole = domain.Role(role)
	return inv, nil
}
