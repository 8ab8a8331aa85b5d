package events

import (
	"context"
	"time"
)

//go:generate mockgen -source=events.go -destination=mocks/publisher_mock.go -package=mocks

type Stream string

const (
	StreamTrial  Stream = "trial"
	StreamHealth Stream = "health"
)

const (
	TypePOCCreated       = "poc.created"
	TypePOCExtended      = "poc.extended"
	TypePOCConverted     = "poc.converted"
	TypePOCExpired       = "poc.expired"
	TypePOCTicked        = "poc.ticked"
	TypePOCUsage         = "poc.usage_recorded"
	TypePOCEngagement    = "poc.engagement_recorded"
	TypePOCRemoved       = "poc.removed"
	TypeHealthTierChange = "health.tier_changed"
	TypeHealthChurnAlert = "health.churn_alert"
)

// Event é publicado depois que a mudança de estado foi gravada
type Event struct {
	Stream     Stream    `json:"-"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, batch ...Event) error
	Close() error
}

// NoopPublisher descarta os eventos; usado quando EVENTS_ENABLED=false
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
