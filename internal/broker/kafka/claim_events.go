package kafka

import (
	"context"

	"github.com/BearBump/ClaimBox/internal/broker/messages"
)

// ClaimEvents publishes claim lifecycle events to a single topic.
type ClaimEvents struct {
	p     *Producer
	topic string
}

func NewClaimEvents(p *Producer, topic string) *ClaimEvents {
	return &ClaimEvents{p: p, topic: topic}
}

func (e *ClaimEvents) PublishClaimEvent(ctx context.Context, ev messages.ClaimEvent) error {
	return e.p.PublishClaim(ctx, e.topic, ev.ClaimID, ev)
}
