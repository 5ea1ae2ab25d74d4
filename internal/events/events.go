// Package events publishes domain events after the state change they describe
// has been committed. Delivery failures never undo the change.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/retailer_portal/internal/mykafka"
)

const (
	TypeOrderPlaced     = "order_placed"
	TypeUserRegistered  = "user_registered"
	TypeDeliveryUpdated = "delivery_status_updated"
	TypeCartUpdated     = "cart_updated"
)

type Publisher interface {
	Publish(ctx context.Context, key string, event map[string]any) error
}

type KafkaPublisher struct {
	Producer *mykafka.Producer
	Topic    string
	Timeout  time.Duration
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, event map[string]any) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.Producer.PublishEvent(ctx, p.Topic, key, event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, map[string]any) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	Events []map[string]any
	Err    error
}

func (r *Recorder) Publish(_ context.Context, _ string, event map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, event)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		t, _ := e["type"].(string)
		out = append(out, t)
	}
	return out
}
