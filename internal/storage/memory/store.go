// Package memory provides an in-process initiative store for development
// servers and tests. Updates are serialised by a single lock and applied
// only when the transaction function succeeds.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// ErrReadOnly is returned when a write is attempted inside View.
var ErrReadOnly = errors.New("memory: write in read-only transaction")

// Store is an in-memory implementation of initiative.Store.
type Store struct {
	mu         sync.RWMutex
	nextID     int64
	rooms      map[int64]*room.Room
	characters map[int64]*character.Character
	roster     map[int64][]int64
	players    map[int64]map[int64]bool
	entries    map[initiative.Key]*initiative.Entry
	now        func() time.Time
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		rooms:      make(map[int64]*room.Room),
		characters: make(map[int64]*character.Character),
		roster:     make(map[int64][]int64),
		players:    make(map[int64]map[int64]bool),
		entries:    make(map[initiative.Key]*initiative.Entry),
		now:        time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// CreateRoom stores a copy of r with ID and timestamps set. An empty Code is generated.
func (s *Store) CreateRoom(r *room.Room) (*room.Room, error) {
	out := *r
	if out.Code == "" {
		out.Code = room.NewCode()
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rooms {
		if strings.EqualFold(existing.Code, out.Code) {
			return nil, fmt.Errorf("memory: room code %q already taken", out.Code)
		}
	}
	out.ID = s.id()
	out.CreatedAt = s.now()
	out.UpdatedAt = out.CreatedAt
	s.rooms[out.ID] = &out
	cp := out
	return &cp, nil
}

// CreateCharacter stores a copy of c with ID set and derived stats refreshed.
func (s *Store) CreateCharacter(c *character.Character) (*character.Character, error) {
	out := *c
	out.Normalize()
	if err := out.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out.ID = s.id()
	out.CreatedAt = s.now()
	out.UpdatedAt = out.CreatedAt
	s.characters[out.ID] = &out
	cp := out
	return &cp, nil
}

// RoomByCode returns a copy of the room whose code matches, ignoring case.
func (s *Store) RoomByCode(code string) (*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if strings.EqualFold(r.Code, code) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, room.ErrNotFound
}

// CharacterByOwnerAndName returns a copy of ownerID's character called name.
func (s *Store) CharacterByOwnerAndName(ownerID int64, name string) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *character.Character
	for _, c := range s.characters {
		if c.OwnerID == ownerID && c.Name == name && (found == nil || c.ID < found.ID) {
			found = c
		}
	}
	if found == nil {
		return nil, character.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

// AddPlayer records userID as a player of roomID.
func (s *Store) AddPlayer(roomID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return room.ErrNotFound
	}
	if s.players[roomID] == nil {
		s.players[roomID] = make(map[int64]bool)
	}
	s.players[roomID][userID] = true
	return nil
}

// AddToRoster associates characterID with roomID. Adding twice is a no-op.
func (s *Store) AddToRoster(roomID, characterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return room.ErrNotFound
	}
	if _, ok := s.characters[characterID]; !ok {
		return character.ErrNotFound
	}
	if !slices.Contains(s.roster[roomID], characterID) {
		s.roster[roomID] = append(s.roster[roomID], characterID)
	}
	return nil
}

// RemoveFromRoster drops characterID from roomID's roster. Existing entries are kept.
func (s *Store) RemoveFromRoster(roomID, characterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster[roomID] = slices.DeleteFunc(s.roster[roomID], func(id int64) bool { return id == characterID })
	return nil
}

// EntryCount returns the number of stored entries for roomID, across all rounds.
func (s *Store) EntryCount(roomID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.entries {
		if k.RoomID == roomID {
			n++
		}
	}
	return n
}

// Update implements initiative.Store.
func (s *Store) Update(ctx context.Context, roomID int64, fn func(tx initiative.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.begin(roomID, true)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// View implements initiative.Store.
func (s *Store) View(ctx context.Context, roomID int64, fn func(tx initiative.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, err := s.begin(roomID, false)
	if err != nil {
		return err
	}
	return fn(t)
}

func (s *Store) begin(roomID int64, writable bool) (*tx, error) {
	r, ok := s.rooms[roomID]
	if !ok {
		return nil, room.ErrNotFound
	}
	cp := *r
	return &tx{
		s:        s,
		room:     &cp,
		writable: writable,
		pending:  make(map[initiative.Key]*initiative.Entry),
	}, nil
}

// tx buffers writes until commit. The caller holds s.mu for its lifetime.
type tx struct {
	s        *Store
	room     *room.Room
	writable bool
	turn     *room.TurnState
	pending  map[initiative.Key]*initiative.Entry
}

func (t *tx) Room() *room.Room { return t.room }

func (t *tx) Roster(_ context.Context) ([]*character.Character, error) {
	ids := t.s.roster[t.room.ID]
	out := make([]*character.Character, 0, len(ids))
	for _, id := range ids {
		c := *t.s.characters[id]
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *character.Character) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (t *tx) IsPlayer(_ context.Context, userID int64) (bool, error) {
	return t.s.players[t.room.ID][userID], nil
}

func (t *tx) lookup(key initiative.Key) (*initiative.Entry, bool) {
	if e, ok := t.pending[key]; ok {
		return e, true
	}
	e, ok := t.s.entries[key]
	return e, ok
}

func (t *tx) Entries(_ context.Context, round int) ([]*initiative.Entry, error) {
	seen := make(map[initiative.Key]bool)
	var out []*initiative.Entry
	collect := func(m map[initiative.Key]*initiative.Entry) {
		for k, e := range m {
			if k.RoomID != t.room.ID || k.Round != round || seen[k] {
				continue
			}
			seen[k] = true
			cp := *e
			if c, ok := t.s.characters[k.CharacterID]; ok {
				cp.CharacterName = c.Name
				cp.CharacterType = c.Type
			}
			out = append(out, &cp)
		}
	}
	collect(t.pending)
	collect(t.s.entries)
	return out, nil
}

func (t *tx) EnsureEntry(_ context.Context, key initiative.Key) (*initiative.Entry, error) {
	if !t.writable {
		return nil, ErrReadOnly
	}
	if e, ok := t.lookup(key); ok {
		cp := *e
		return &cp, nil
	}
	e := &initiative.Entry{ID: t.s.id(), Key: key, CreatedAt: t.s.now()}
	t.pending[key] = e
	cp := *e
	return &cp, nil
}

func (t *tx) SaveEntry(_ context.Context, e *initiative.Entry) error {
	if !t.writable {
		return ErrReadOnly
	}
	if _, ok := t.lookup(e.Key); !ok {
		return fmt.Errorf("memory: entry %+v does not exist", e.Key)
	}
	cp := *e
	t.pending[e.Key] = &cp
	return nil
}

func (t *tx) SaveTurn(_ context.Context, turn room.TurnState) error {
	if !t.writable {
		return ErrReadOnly
	}
	t.turn = &turn
	return nil
}

func (t *tx) commit() {
	for k, e := range t.pending {
		t.s.entries[k] = e
	}
	if t.turn != nil {
		r := t.s.rooms[t.room.ID]
		r.Turn = *t.turn
		r.UpdatedAt = t.s.now()
	}
}
