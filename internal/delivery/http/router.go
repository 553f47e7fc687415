package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"

	"clubportal/internal/delivery/http/controllers"
	"clubportal/internal/delivery/http/helpers"
	"clubportal/internal/delivery/http/middleware"
	"clubportal/internal/domain"
)

// RouterDeps holds everything NewRouter mounts.
type RouterDeps struct {
	Clubs       *controllers.ClubController
	Invitations *controllers.InvitationController
	Verifier    domain.TokenVerifier
	Logger      *slog.Logger
	// Metrics serves GET /metrics; nil leaves the route unmounted.
	Metrics http.Handler
	// Ping reports store health for GET /healthz; nil always reports ok.
	Ping func(ctx context.Context) error
	// PublicRequestsPerMinute limits the unauthenticated invitation routes per client IP.
	PublicRequestsPerMinute int
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(deps.Verifier, deps.Logger)
	clubAdmin := func(h http.HandlerFunc) http.HandlerFunc { return auth(middleware.RequireClubAdmin(h)) }
	superAdmin := func(h http.HandlerFunc) http.HandlerFunc { return auth(middleware.RequireSuperAdmin(h)) }

	// Clubs and seats
	mux.HandleFunc("POST /clubs", superAdmin(deps.Clubs.CreateClub))
	mux.HandleFunc("GET /clubs/{clubID}/seats", clubAdmin(deps.Clubs.SeatSummary))
	mux.HandleFunc("POST /clubs/{clubID}/seats/validate", clubAdmin(deps.Clubs.ValidateSeats))
	mux.HandleFunc("GET /clubs/{clubID}/members", clubAdmin(deps.Clubs.ListMembers))

	// Invitations
	mux.HandleFunc("POST /clubs/{clubID}/invitations", clubAdmin(deps.Invitations.IssueInvitations))
	mux.HandleFunc("GET /clubs/{clubID}/invitations", clubAdmin(deps.Invitations.ListInvitations))

	// Public signup flow
	limit := publicRateLimit(deps.PublicRequestsPerMinute)
	mux.Handle("GET /invitations/{code}", limit(http.HandlerFunc(deps.Invitations.GetInvitation)))
	mux.Handle("POST /invitations/{code}/redeem", limit(http.HandlerFunc(deps.Invitations.RedeemInvitation)))

	// Ops
	mux.HandleFunc("GET /healthz", healthz(deps.Ping))
	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

func publicRateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			helpers.WriteJSONError(w, http.StatusTooManyRequests, helpers.ErrCodeTooManyRequests, "too many requests")
		}),
	)
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeServiceUnavailable, "database unreachable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
