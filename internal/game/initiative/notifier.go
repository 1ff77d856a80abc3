package initiative

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_notifier.go -package=initiativemock github.com/cory-johannsen/turnkeeper/internal/game/initiative Notifier

// EventType names a committed turn-order change.
type EventType string

const (
	EventStarted  EventType = "initiative.started"
	EventAdvanced EventType = "initiative.advanced"
	EventReset    EventType = "initiative.reset"
	EventRolled   EventType = "initiative.rolled"
)

// Event describes a committed change so displays can refresh.
type Event struct {
	Type      EventType `json:"type"`
	RoomID    int64     `json:"room_id"`
	Round     int       `json:"round"`
	TurnIndex int       `json:"turn_index"`
	Active    bool      `json:"active"`
	// Current is the entry whose turn it is, if any.
	Current *Entry    `json:"current,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier receives events after their transaction commits.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// NopNotifier discards events.
type NopNotifier struct{}

// Publish implements Notifier.
func (NopNotifier) Publish(context.Context, Event) error { return nil }
