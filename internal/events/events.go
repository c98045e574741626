// Package events publishes response workflow changes to other systems.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/miat-mn/action-log/internal/models"
)

// ResponseEvent is emitted after every successful workflow transition.
type ResponseEvent struct {
	HazardID      uint          `json:"hazard_id"`
	Transition    string        `json:"transition"`
	CurrentStatus models.Status `json:"current_status"`
	ActorUserID   uint          `json:"actor_user_id"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

type Publisher interface {
	PublishResponseEvent(ctx context.Context, event ResponseEvent) error
	Close() error
}

// Noop discards events. It is used when no broker is configured.
type Noop struct{}

func (Noop) PublishResponseEvent(context.Context, ResponseEvent) error { return nil }
func (Noop) Close() error                                              { return nil }

// Recorder keeps events in memory for tests. It is safe for concurrent
// publishers; read Events once they are done.
type Recorder struct {
	Events []ResponseEvent
	Err    error
	mu     sync.Mutex
}

func (r *Recorder) PublishResponseEvent(_ context.Context, event ResponseEvent) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	r.Events = append(r.Events, event)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() error { return nil }
