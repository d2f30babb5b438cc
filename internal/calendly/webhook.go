package calendly

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/sitefront/internal/observability/metrics"
	"github.com/wolfman30/sitefront/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var webhookTracer = otel.Tracer("sitefront.internal.calendly")

const (
	EventInviteeCreated  = "invitee.created"
	EventInviteeCanceled = "invitee.canceled"
)

// WebhookPayload is the envelope Calendly posts to the webhook.
type WebhookPayload struct {
	Event     string         `json:"event"`
	CreatedAt string         `json:"created_at,omitempty"`
	CreatedBy string         `json:"created_by,omitempty"`
	Payload   *WebhookDetail `json:"payload,omitempty"`
}

// WebhookDetail carries the invitee and the booked event.
type WebhookDetail struct {
	Invitee *Invitee     `json:"invitee,omitempty"`
	Event   *EventDetail `json:"event,omitempty"`
}

// Invitee is the person who booked.
type Invitee struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Timezone           string `json:"timezone,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
	RescheduleURL      string `json:"reschedule_url,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// EventDetail is the booked meeting.
type EventDetail struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// BookingEvent is published downstream for each handled webhook.
type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	EventName  string    `json:"event_name"`
	StartTime  string    `json:"start_time,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Publisher forwards booking events, e.g. to a CRM sync queue.
type Publisher interface {
	Publish(ctx context.Context, evt BookingEvent) error
}

// ErrMissingDetail is returned when a handled event lacks invitee or event data.
var ErrMissingDetail = errors.New("calendly: webhook payload missing invitee or event")

// WebhookProcessor dispatches Calendly webhook events.
type WebhookProcessor struct {
	publisher Publisher
	metrics   *metrics.SiteMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewWebhookProcessor creates a processor. publisher may be nil.
func NewWebhookProcessor(publisher Publisher, m *metrics.SiteMetrics, logger *logging.Logger) *WebhookProcessor {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookProcessor{publisher: publisher, metrics: m, logger: logger, now: time.Now}
}

// Process handles invitee.created and invitee.canceled; any other event is
// logged and ignored.
func (p *WebhookProcessor) Process(ctx context.Context, payload WebhookPayload) error {
	ctx, span := webhookTracer.Start(ctx, "calendly.webhook")
	defer span.End()
	span.SetAttributes(attribute.String("calendly.event", payload.Event))

	p.logger.Info("calendly webhook received", "event", payload.Event, "timestamp", p.now().UTC().Format(time.RFC3339))

	var err error
	switch payload.Event {
	case EventInviteeCreated:
		err = p.handle(ctx, payload, "new booking created")
	case EventInviteeCanceled:
		err = p.handle(ctx, payload, "booking canceled")
	default:
		p.logger.Warn("unhandled calendly event", "event", payload.Event)
		p.metrics.ObserveWebhook(payload.Event, "ignored")
		return nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "webhook processing failed")
		p.metrics.ObserveWebhook(payload.Event, "error")
		return err
	}
	p.metrics.ObserveWebhook(payload.Event, "handled")
	return nil
}

func (p *WebhookProcessor) handle(ctx context.Context, payload WebhookPayload, msg string) error {
	if payload.Payload == nil || payload.Payload.Invitee == nil || payload.Payload.Event == nil {
		return ErrMissingDetail
	}
	invitee, event := payload.Payload.Invitee, payload.Payload.Event
	attrs := []any{"name", invitee.Name, "email", invitee.Email, "event_name", event.Name}
	if payload.Event == EventInviteeCreated {
		attrs = append(attrs, "start_time", event.StartTime)
	}
	p.logger.Info(msg, attrs...)

	if p.publisher == nil {
		return nil
	}
	evt := BookingEvent{
		ID:         uuid.NewString(),
		Type:       payload.Event,
		Name:       invitee.Name,
		Email:      invitee.Email,
		EventName:  event.Name,
		StartTime:  event.StartTime,
		ReceivedAt: p.now().UTC(),
	}
	// Publishing is best effort: a failure must not make Calendly redeliver.
	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("failed to publish booking event", "event", payload.Event, "booking_id", evt.ID, "error", err)
		p.metrics.ObserveWebhook(payload.Event, "publish_error")
	}
	return nil
}
