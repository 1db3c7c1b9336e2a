// Package events publishes domain events after the unit of work that
// produced them commits. Backends are Kafka, SQS or the structured log.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emr/emr/internal/platform/db"
)

const (
	PatientRegistered      = "patient.registered"
	PatientDeactivated     = "patient.deactivated"
	EncounterStatusChanged = "encounter.status_changed"
	PrescriptionCreated    = "prescription.created"
	LabResultRecorded      = "lab_result.recorded"
	BillingPaymentRecorded = "billing.payment_recorded"
	DocumentUploaded       = "document.uploaded"
)

// Event is the envelope written to every backend.
type Event struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID int64           `json:"aggregateId"`
	ActorID     *int64          `json:"actorId,omitempty"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// Publisher delivers events to a backend.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NewEvent builds an event for aggregateID, stamping the actor from ctx.
func NewEvent(ctx context.Context, eventType string, aggregateID int64, data any) (Event, error) {
	evt := Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		ActorID:     db.ActorFromContext(ctx),
		OccurredAt:  time.Now().UTC(),
	}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
		}
		evt.Data = b
	}
	return evt, nil
}

// Emitter queues events on the unit of work in ctx and publishes them once it
// commits. Publish failures are logged; the committed write stands.
type Emitter struct {
	pub    Publisher
	logger zerolog.Logger
}

func NewEmitter(pub Publisher, logger zerolog.Logger) *Emitter {
	return &Emitter{pub: pub, logger: logger}
}

// Emit schedules eventType for aggregateID. A nil Emitter does nothing.
func (e *Emitter) Emit(ctx context.Context, eventType string, aggregateID int64, data any) {
	if e == nil || e.pub == nil {
		return
	}
	evt, err := NewEvent(ctx, eventType, aggregateID, data)
	if err != nil {
		e.logger.Error().Err(err).Str("event", eventType).Msg("build event")
		return
	}
	db.AfterCommit(ctx, func(ctx context.Context) {
		// The request may finish before a slow broker answers.
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := e.pub.Publish(pctx, evt); err != nil {
			e.logger.Error().Err(err).
				Str("event_id", evt.ID).
				Str("event", evt.Type).
				Int64("aggregate_id", evt.AggregateID).
				Msg("publish event")
		}
	})
}

// LogPublisher writes events to the structured log.
type LogPublisher struct {
	logger zerolog.Logger
}

func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, evt Event) error {
	ev := p.logger.Info().
		Str("type", "event").
		Str("event_id", evt.ID).
		Str("event", evt.Type).
		Int64("aggregate_id", evt.AggregateID).
		Time("occurred_at", evt.OccurredAt)
	if evt.ActorID != nil {
		ev = ev.Int64("actor_id", *evt.ActorID)
	}
	if len(evt.Data) > 0 {
		ev = ev.RawJSON("data", evt.Data)
	}
	ev.Msg("domain_event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, evt Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what has been published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the published event types in order.
func (r *Recorder) Types() []string {
	var out []string
	for _, e := range r.Events() {
		out = append(out, e.Type)
	}
	return out
}
