package grpcapi

import "github.com/cory-johannsen/turnkeeper/internal/game/initiative"

// RoomRequest addresses a room.
type RoomRequest struct {
	RoomID int64 `json:"room_id"`
}

// RollRequest addresses one roster character in a room.
type RollRequest struct {
	RoomID      int64 `json:"room_id"`
	CharacterID int64 `json:"character_id"`
}

// QueueResponse carries entries in turn order.
type QueueResponse struct {
	Entries []*initiative.Entry `json:"entries"`
}

// EntryResponse carries a single entry. Entry is nil when there is none.
type EntryResponse struct {
	Entry *initiative.Entry `json:"entry,omitempty"`
}

// SnapshotResponse carries a room's turn state and queue.
type SnapshotResponse struct {
	Snapshot *initiative.Snapshot `json:"snapshot"`
}

// Empty is returned by operations with no result.
type Empty struct{}
