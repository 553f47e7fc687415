package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"clubportal/config"
	_ "clubportal/docs"
	"clubportal/internal/adapters/auth"
	"clubportal/internal/adapters/email"
	"clubportal/internal/adapters/events"
	"clubportal/internal/adapters/metrics"
	httpdelivery "clubportal/internal/delivery/http"
	"clubportal/internal/delivery/http/controllers"
	"clubportal/internal/delivery/http/middleware"
	"clubportal/internal/domain"
	"clubportal/internal/repository/postgres"
	"clubportal/internal/services"
	"clubportal/internal/telemetry"
)

// @title Club Portal API
// @version 1.0
// @description Invitation codes and subscription seat quotas for club administrators.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin JWT.
func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.Init(ctx, "clubportal", cfg.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(sctx); err != nil {
				logger.Warn("tracer shutdown", "err", err)
			}
		}()
	}

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	logger.Info("connected to database")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	invMetrics := metrics.New(reg)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	var publisher domain.EventPublisher = events.NewNoopPublisher(logger)
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			return err
		}
		defer natsPub.Close()
		publisher = natsPub
	}

	store := postgres.NewInvitationStore(db)
	clubService := services.NewClubService(postgres.NewClubRepository(db), postgres.NewMemberRepository(db), time.Now)
	seatAccountant := services.NewSeatAccountant(store, time.Now, invMetrics, logger)
	invitationService := services.NewInvitationService(services.InvitationServiceDeps{
		Store:         store,
		Codes:         services.NewCodeGenerator(),
		Clock:         time.Now,
		Emails:        emailService,
		Events:        publisher,
		Metrics:       invMetrics,
		Logger:        logger,
		SignupBaseURL: cfg.SignupBaseURL,
	})
	finalizer := services.NewSignupFinalizer(store, time.Now, publisher, invMetrics, logger)

	mux := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Clubs:                   controllers.NewClubController(logger, clubService, seatAccountant),
		Invitations:             controllers.NewInvitationController(logger, invitationService, finalizer),
		Verifier:                auth.NewJWTVerifier(cfg.JWTSecret),
		Logger:                  logger,
		Metrics:                 promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Ping:                    db.PingContext,
		PublicRequestsPerMinute: cfg.RateLimitPerMinute,
	})
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))
	handler = otelhttp.NewHandler(handler, "clubportal")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}
