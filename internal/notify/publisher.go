// Package notify fans initiative events out over Redis pub/sub so table
// displays can refresh without polling.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
)

// DefaultRetention is how long the latest event per room is kept.
const DefaultRetention = 24 * time.Hour

// Envelope is the wire form of an event.
type Envelope struct {
	ID string `json:"id"`
	initiative.Event
}

// Channel returns the pub/sub channel for roomID.
func Channel(prefix string, roomID int64) string {
	if prefix == "" {
		return fmt.Sprintf("room:%d:initiative", roomID)
	}
	return fmt.Sprintf("%s:room:%d:initiative", prefix, roomID)
}

func lastKey(prefix string, roomID int64) string {
	return Channel(prefix, roomID) + ":last"
}

// Config holds the Publisher's dependencies.
type Config struct {
	Client redis.UniversalClient
	Logger *zap.Logger
	// Prefix namespaces channels and keys.
	Prefix string
	// Retention defaults to DefaultRetention.
	Retention time.Duration
	// NewID defaults to random UUIDs.
	NewID func() string
}

// Validate checks required dependencies.
func (c *Config) Validate() error {
	if c == nil {
		return apperrors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return apperrors.InvalidArgument("redis client cannot be nil")
	}
	if c.Logger == nil {
		return apperrors.InvalidArgument("logger cannot be nil")
	}
	return nil
}

// Publisher implements initiative.Notifier on Redis.
type Publisher struct {
	client    redis.UniversalClient
	logger    *zap.Logger
	prefix    string
	retention time.Duration
	newID     func() string
}

var _ initiative.Notifier = (*Publisher)(nil)

// NewPublisher creates a Publisher from cfg.
func NewPublisher(cfg *Config) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Publisher{
		client:    cfg.Client,
		logger:    cfg.Logger,
		prefix:    cfg.Prefix,
		retention: cfg.Retention,
		newID:     cfg.NewID,
	}
	if p.retention <= 0 {
		p.retention = DefaultRetention
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	return p, nil
}

// Publish stores ev as the room's latest event and broadcasts it.
func (p *Publisher) Publish(ctx context.Context, ev initiative.Event) error {
	env := Envelope{ID: p.newID(), Event: ev}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	if err := p.client.Set(ctx, lastKey(p.prefix, ev.RoomID), payload, p.retention).Err(); err != nil {
		return fmt.Errorf("storing latest event: %w", err)
	}
	receivers, err := p.client.Publish(ctx, Channel(p.prefix, ev.RoomID), payload).Result()
	if err != nil {
		return fmt.Errorf("publishing event: %w", err)
	}

	p.logger.Debug("initiative event published",
		zap.String("id", env.ID),
		zap.String("type", string(ev.Type)),
		zap.Int64("room_id", ev.RoomID),
		zap.Int64("receivers", receivers),
	)
	return nil
}

// Last returns the most recent event for roomID, or nil when none is retained.
func (p *Publisher) Last(ctx context.Context, roomID int64) (*Envelope, error) {
	payload, err := p.client.Get(ctx, lastKey(p.prefix, roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading latest event: %w", err)
	}
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	return &env, nil
}
