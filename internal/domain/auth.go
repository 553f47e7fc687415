package domain

// Principal is the authenticated caller of the admin API.
type Principal struct {
	UserID string
	Email  string
	ClubID string
	Role   Role
}

// CanManage reports whether p may administer clubID.
func (p Principal) CanManage(clubID string) bool {
	if p.Role == RoleSuperAdmin {
		return true
	}
	return p.ClubID == clubID && p.Role.CanManageClub()
}

// TokenVerifier verifies a bearer token and returns its principal.
type TokenVerifier interface {
	Verify(token string) (Principal, error)
}
