package domain

// InvitationMetrics records issuance outcomes.
type InvitationMetrics interface {
	InvitationsIssued(category SeatCategory, n int)
	QuotaRejected(category SeatCategory)
	CodeCollision()
	InvitationRedeemed(role Role)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) InvitationsIssued(SeatCategory, int) {}
func (NopMetrics) QuotaRejected(SeatCategory)          {}
func (NopMetrics) CodeCollision()                      {}
func (NopMetrics) InvitationRedeemed(Role)             {}
