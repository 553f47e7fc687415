package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"clubportal/internal/domain"
)

// Collectors implements domain.InvitationMetrics with Prometheus counters.
type Collectors struct {
	issued     *prometheus.CounterVec
	rejected   *prometheus.CounterVec
	collisions prometheus.Counter
	redeemed   *prometheus.CounterVec
}

// New registers the invitation collectors on reg.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubportal",
			Name:      "invitations_issued_total",
			Help:      "Invitations persisted, by seat category.",
		}, []string{"category"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubportal",
			Name:      "seat_requests_rejected_total",
			Help:      "Seat requests rejected because a subscription cap was reached.",
		}, []string{"category"}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clubportal",
			Name:      "invitation_code_collisions_total",
			Help:      "Generated invitation codes that already existed and were regenerated.",
		}),
		redeemed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clubportal",
			Name:      "invitations_redeemed_total",
			Help:      "Invitations converted into members, by role.",
		}, []string{"role"}),
	}
	reg.MustRegister(c.issued, c.rejected, c.collisions, c.redeemed)
	return c
}

func categoryLabel(c domain.SeatCategory) string {
	if c == domain.SeatNone {
		return "none"
	}
	return string(c)
}

func (c *Collectors) InvitationsIssued(category domain.SeatCategory, n int) {
	c.issued.WithLabelValues(categoryLabel(category)).Add(float64(n))
}

func (c *Collectors) QuotaRejected(category domain.SeatCategory) {
	c.rejected.WithLabelValues(categoryLabel(category)).Inc()
}

func (c *Collectors) CodeCollision() {
	c.collisions.Inc()
}

func (c *Collectors) InvitationRedeemed(role domain.Role) {
	c.redeemed.WithLabelValues(string(role)).Inc()
}
