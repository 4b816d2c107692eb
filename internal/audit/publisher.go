package audit

import (
	"context"
	"errors"
	"time"
)

// Store is the append-only persistence surface for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByPerson(ctx context.Context, personID string) ([]Event, error)
}

// ErrBufferFull is returned when the inbox cannot take another event.
// Callers treat audit as best-effort and log the drop.
var ErrBufferFull = errors.New("audit: event buffer full")

// Publisher captures structured audit events on a buffered inbox. A Worker
// drains the inbox into a Store, keeping domain operations off the audit
// write path.
type Publisher struct {
	inbox chan Event
}

func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{inbox: make(chan Event, buffer)}
}

// Emit enqueues the event without blocking. Events are dropped with
// ErrBufferFull when the worker falls behind.
func (p *Publisher) Emit(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		return ErrBufferFull
	}
}

// Inbox exposes the receive side for the draining worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}
