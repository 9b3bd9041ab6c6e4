package memory

import (
	"context"
	"sync"

	appoutbox "campsite/internal/app/outbox"
)

// Outbox buffers events and discards them on flush. The memory backend has
// no broker to deliver to; Pending exists so tests can inspect what a command
// recorded before the flush wipes it.
type Outbox struct {
	mu      sync.Mutex
	pending []appoutbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(_ context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(o.pending, record)
	return nil
}

func (o *Outbox) Flush(context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = nil
	return nil
}

// Pending returns a copy of the buffered records.
func (o *Outbox) Pending() []appoutbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]appoutbox.EventRecord, len(o.pending))
	copy(out, o.pending)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
