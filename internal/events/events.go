// Package events publishes domain events after successful ledger mutations.
// Publishing is best effort: the ledger is the source of truth and a failed
// publish never undoes a committed change.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Routing keys.
const (
	TransferCompleted = "bank.transfer.completed"
	AccountCredited   = "bank.account.credited"
	ItemsMoved        = "items.moved"
	CouponRedeemed    = "coupon.redeemed"
	RitePerformed     = "heart.rite.performed"
)

// Event is the envelope published for every domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor,omitempty"`
	Payload    any       `json:"payload"`
}

// New builds an event with a fresh ID.
func New(eventType, actor string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Actor:      actor,
		Payload:    payload,
	}
}

// Publisher is implemented by event sinks.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
