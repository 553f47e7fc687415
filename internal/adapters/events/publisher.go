package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"clubportal/internal/domain"
)

// SubjectPrefix prefixes every invitation subject, e.g. clubportal.invitations.issued.
const SubjectPrefix = "clubportal.invitations."

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSPublisher publishes invitation events as JSON on core NATS subjects.
type NATSPublisher struct {
	nc     conn
	closer func()
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url string, opts ...nats.Option) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc, closer: func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	}}, nil
}

// Subject maps an event type to its subject.
func Subject(eventType string) string {
	return SubjectPrefix + strings.TrimPrefix(eventType, "invitation.")
}

func (p *NATSPublisher) Publish(ctx context.Context, event domain.InvitationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.nc.Publish(Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return p.nc.FlushWithContext(ctx)
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p != nil && p.closer != nil {
		p.closer()
	}
}

type noopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher returns a publisher that only logs at debug level.
func NewNoopPublisher(logger *slog.Logger) domain.EventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &noopPublisher{logger: logger}
}

func (p *noopPublisher) Publish(ctx context.Context, event domain.InvitationEvent) error {
	p.logger.DebugContext(ctx, "event not published (noop)", "type", event.Type, "club_id", event.ClubID)
	return nil
}
