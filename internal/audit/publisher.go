// Package audit records the case mutations the service issues. Events go to
// a Kafka topic when brokers are configured and to the log otherwise.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"casebridge/internal/buc/ports"
)

// Sink persists audit events.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and hands
// events to a sink so tests can swap sinks easily.
type Publisher struct {
	sink Sink
	now  func() time.Time
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink, now: time.Now}
}

var _ ports.AuditPublisher = (*Publisher)(nil)

// Publish stamps the event with an id and, if missing, a timestamp.
func (p *Publisher) Publish(ctx context.Context, e ports.AuditEvent) error {
	if e.Action == "" || e.CaseID == "" {
		return fmt.Errorf("audit event requires action and case id")
	}
	event := Event{
		ID:           uuid.NewString(),
		Timestamp:    e.Timestamp,
		Action:       e.Action,
		CaseID:       e.CaseID,
		Caller:       e.Caller,
		RequestID:    e.RequestID,
		Strategy:     e.Strategy,
		Institutions: e.Institutions,
		DocumentIDs:  e.DocumentIDs,
		Failure:      e.Failure,
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	return p.sink.Append(ctx, event)
}
