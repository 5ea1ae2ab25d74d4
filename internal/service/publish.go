package service

import (
	"context"

	"github.com/Skotchmaster/retailer_portal/internal/events"
	"github.com/Skotchmaster/retailer_portal/pkg/logging"
)

// publish sends event after the change it describes is durable. Failures are
// logged and never surfaced to the caller.
func publish(ctx context.Context, p events.Publisher, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "type", event["type"], "key", key, "error", err)
	}
}
