package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrWorkerNotConfigured = errors.New("outbox: worker needs a store and a producer")

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error
}

// Worker drains the outbox on a ticker, wrapping each event in a CloudEvents
// envelope and publishing it keyed by aggregate id so per-reservation
// ordering survives partitioning. A failed publish reschedules the event with
// backoff; the command that produced it is long gone and never notices.
type Worker struct {
	Store       *Store
	Producer    Producer
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
}

func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	interval := w.Interval
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				return err
			}
		}
	}
}

// drain publishes claimed events until the due queue is empty.
func (w *Worker) drain(ctx context.Context) error {
	for {
		doc, err := w.Store.Claim(ctx, w.workerID())
		if err != nil {
			return err
		}
		if doc == nil {
			return nil
		}
		w.deliver(ctx, doc)
	}
}

func (w *Worker) deliver(ctx context.Context, doc *EventDocument) {
	payload, headers, err := w.envelope(doc)
	if err != nil {
		_ = w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
		return
	}
	if err := w.Producer.Publish(ctx, w.topicFor(doc.Name), doc.Aggregate, payload, headers); err != nil {
		_ = w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), err.Error())
		return
	}
	_ = w.Store.MarkSent(ctx, doc.ID)
}

// envelope wraps the stored payload in a CloudEvents 1.0 structured envelope.
func (w *Worker) envelope(doc *EventDocument) ([]byte, map[string]string, error) {
	var data map[string]any
	if err := json.Unmarshal(doc.Payload, &data); err != nil {
		return nil, nil, err
	}
	source := w.Source
	if source == "" {
		source = "app://campsite"
	}
	evt := map[string]any{
		"specversion":     "1.0",
		"id":              uuid.NewString(),
		"type":            doc.Name + ".v1",
		"source":          source,
		"time":            doc.OccurredAt,
		"datacontenttype": "application/json",
		"data":            data,
	}
	if trace, ok := doc.Headers["traceparent"]; ok {
		evt["traceparent"] = trace
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{"content-type": "application/cloudevents+json"}
	for k, v := range doc.Headers {
		headers[k] = v
	}
	return payload, headers, nil
}

// topicFor maps "reservation.confirmed" style names onto
// "reservation.events.v1" topics, one topic per aggregate family.
func (w *Worker) topicFor(name string) string {
	family := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		family = name[:idx]
	}
	return w.TopicPrefix + family + ".events.v1"
}

func (w *Worker) workerID() string {
	if w.ID != "" {
		return w.ID
	}
	return uuid.NewString()
}

func (w *Worker) nextRetry(attempts int) time.Time {
	switch {
	case attempts < len(w.Backoff):
		return time.Now().Add(w.Backoff[attempts])
	case len(w.Backoff) > 0:
		return time.Now().Add(w.Backoff[len(w.Backoff)-1])
	default:
		return time.Now().Add(5 * time.Second)
	}
}
