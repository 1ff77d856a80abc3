package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Subscription receives a room's events in publish order.
type Subscription struct {
	ps *redis.PubSub
}

// Subscribe listens on roomID's channel. It returns once Redis has confirmed
// the subscription, so events published afterwards are not missed.
func Subscribe(ctx context.Context, client redis.UniversalClient, prefix string, roomID int64) (*Subscription, error) {
	ps := client.Subscribe(ctx, Channel(prefix, roomID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribing to room %d: %w", roomID, err)
	}
	return &Subscription{ps: ps}, nil
}

// Next blocks until the next event arrives or ctx is done.
func (s *Subscription) Next(ctx context.Context) (Envelope, error) {
	msg, err := s.ps.ReceiveMessage(ctx)
	if err != nil {
		return Envelope{}, err
	}
	var env Envelope
	if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding event: %w", err)
	}
	return env, nil
}

// Close ends the subscription.
func (s *Subscription) Close() error {
	return s.ps.Close()
}
