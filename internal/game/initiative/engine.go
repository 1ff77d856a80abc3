package initiative

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// Config holds the Engine's collaborators.
type Config struct {
	Store  Store
	Roller *dice.Roller
	Logger *zap.Logger
	// Policy defaults to MasterPolicy.
	Policy Policy
	// Notifier defaults to NopNotifier.
	Notifier Notifier
	// Now defaults to time.Now.
	Now func() time.Time
}

// Validate checks required collaborators.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Store == nil {
		return errors.InvalidArgument("store cannot be nil")
	}
	if cfg.Roller == nil {
		return errors.InvalidArgument("roller cannot be nil")
	}
	if cfg.Logger == nil {
		return errors.InvalidArgument("logger cannot be nil")
	}
	return nil
}

// Engine orders and advances initiative for rooms.
//
// Every mutating operation runs inside a single Store.Update, so concurrent
// calls against the same room are serialised by the store's room lock.
// Engine is safe for concurrent use.
type Engine struct {
	store    Store
	roller   *dice.Roller
	policy   Policy
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine creates an Engine from cfg.
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		store:    cfg.Store,
		roller:   cfg.Roller,
		policy:   cfg.Policy,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}
	if e.policy == nil {
		e.policy = MasterPolicy{}
	}
	if e.notifier == nil {
		e.notifier = NopNotifier{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Snapshot is a read-only view of a room's initiative.
type Snapshot struct {
	RoomID int64          `json:"room_id"`
	Turn   room.TurnState `json:"turn"`
	Queue  []*Entry       `json:"queue"`
	State  string         `json:"state"`
	Roster int            `json:"roster"`
}

// Current returns Queue[Turn.TurnIndex], or nil when the index is out of bounds.
func (s *Snapshot) Current() *Entry {
	i, ok := s.Turn.CurrentIndex(len(s.Queue))
	if !ok {
		return nil
	}
	return s.Queue[i]
}

// StartInitiative opens a new round and rolls for the whole roster.
// Starting while a round is active abandons that round and re-rolls.
//
// Postcondition: the returned queue holds exactly one entry per roster
// character, all for the new round, with the first flagged CurrentTurn.
func (e *Engine) StartInitiative(ctx context.Context, actor Actor, roomID int64) ([]*Entry, error) {
	var (
		queue []*Entry
		turn  room.TurnState
	)
	err := e.store.Update(ctx, roomID, func(tx Tx) error {
		if err := e.policy.CanManage(ctx, tx, actor); err != nil {
			return err
		}
		turn = tx.Room().Turn
		turn.Start()
		if err := tx.SaveTurn(ctx, turn); err != nil {
			return err
		}
		tx.Room().Turn = turn

		if _, err := e.rollForRoster(ctx, tx); err != nil {
			return err
		}

		var err error
		queue, err = e.queue(ctx, tx)
		if err != nil {
			return err
		}
		if len(queue) > 0 {
			queue[0].CurrentTurn = true
			queue[0].Completed = false
			return tx.SaveEntry(ctx, queue[0])
		}
		return nil
	})
	if err != nil {
		return nil, e.translate(err, roomID, "starting initiative")
	}

	e.logger.Info("initiative started",
		zap.Int64("room_id", roomID),
		zap.Int64("actor", actor.UserID),
		zap.Int("round", turn.Round),
		zap.Int("combatants", len(queue)),
	)
	e.publish(ctx, EventStarted, roomID, turn, firstOrNil(queue))
	return queue, nil
}

// NextTurn completes the current turn and hands it to the next combatant,
// wrapping to the top of the queue after the last one. The round number does
// not change on wrap.
//
// Postcondition: returns (nil, nil) when initiative is inactive or the queue
// is empty; that is a no-op, not a failure.
func (e *Engine) NextTurn(ctx context.Context, actor Actor, roomID int64) (*Entry, error) {
	var (
		next *Entry
		turn room.TurnState
	)
	err := e.store.Update(ctx, roomID, func(tx Tx) error {
		if err := e.policy.CanManage(ctx, tx, actor); err != nil {
			return err
		}
		turn = tx.Room().Turn
		if !turn.Active {
			return nil
		}
		queue, err := e.queue(ctx, tx)
		if err != nil {
			return err
		}
		if len(queue) == 0 {
			return nil
		}

		if i, ok := turn.CurrentIndex(len(queue)); ok {
			cur := queue[i]
			cur.Completed = true
			cur.CurrentTurn = false
			if err := tx.SaveEntry(ctx, cur); err != nil {
				return err
			}
		}

		turn.Advance(len(queue))
		next = queue[turn.TurnIndex]
		next.CurrentTurn = true
		next.Completed = false
		if err := tx.SaveEntry(ctx, next); err != nil {
			return err
		}
		return tx.SaveTurn(ctx, turn)
	})
	if err != nil {
		return nil, e.translate(err, roomID, "advancing turn")
	}
	if next == nil {
		e.logger.Debug("next turn ignored",
			zap.Int64("room_id", roomID),
			zap.Bool("active", turn.Active),
		)
		return nil, nil
	}

	e.logger.Info("turn advanced",
		zap.Int64("room_id", roomID),
		zap.Int("round", turn.Round),
		zap.Int("turn_index", turn.TurnIndex),
		zap.String("character", next.CharacterName),
	)
	e.publish(ctx, EventAdvanced, roomID, turn, next)
	return next, nil
}

// ResetInitiative returns the room to idle. The round counter is left as is;
// the next StartInitiative opens round+1.
func (e *Engine) ResetInitiative(ctx context.Context, actor Actor, roomID int64) error {
	var turn room.TurnState
	err := e.store.Update(ctx, roomID, func(tx Tx) error {
		if err := e.policy.CanManage(ctx, tx, actor); err != nil {
			return err
		}
		turn = tx.Room().Turn
		turn.Reset()
		return tx.SaveTurn(ctx, turn)
	})
	if err != nil {
		return e.translate(err, roomID, "resetting initiative")
	}

	e.logger.Info("initiative reset",
		zap.Int64("room_id", roomID),
		zap.Int("round", turn.Round),
	)
	e.publish(ctx, EventReset, roomID, turn, nil)
	return nil
}

// RollForCharacter rolls (or re-rolls) initiative for one roster character in
// the room's current round. The entry for (room, character, round) is reused
// when it exists, so repeated calls never create a second entry.
//
// While initiative is active the turn pointer follows the combatant whose turn
// it is, so a late joiner sorting ahead of them does not steal the turn.
func (e *Engine) RollForCharacter(ctx context.Context, actor Actor, roomID, characterID int64) (*Entry, error) {
	var (
		entry *Entry
		turn  room.TurnState
	)
	err := e.store.Update(ctx, roomID, func(tx Tx) error {
		roster, err := tx.Roster(ctx)
		if err != nil {
			return err
		}
		c := findCharacter(roster, characterID)
		if c == nil {
			return errors.NotFoundf("character %d is not in room %d", characterID, roomID).
				WithMeta("character_id", characterID)
		}
		if err := e.policy.CanRoll(ctx, tx, actor, c); err != nil {
			return err
		}

		entry, err = e.rollFor(ctx, tx, c)
		if err != nil {
			return err
		}

		turn = tx.Room().Turn
		if !turn.Active {
			return nil
		}
		queue, err := e.queue(ctx, tx)
		if err != nil {
			return err
		}
		if i, ok := indexOfCurrent(queue); ok && i != turn.TurnIndex {
			turn.TurnIndex = i
			return tx.SaveTurn(ctx, turn)
		}
		return nil
	})
	if err != nil {
		return nil, e.translate(err, roomID, "rolling initiative")
	}

	e.logger.Info("initiative rolled",
		zap.Int64("room_id", roomID),
		zap.Int64("character_id", characterID),
		zap.Int("round", entry.Round),
		zap.Int("roll", entry.Roll),
		zap.Int("bonus", entry.Bonus),
		zap.Int("total", entry.Total),
	)
	e.publish(ctx, EventRolled, roomID, turn, entry)
	return entry, nil
}

// RollForRoom rolls initiative for every roster character in the room's
// current round without changing the turn state.
func (e *Engine) RollForRoom(ctx context.Context, actor Actor, roomID int64) ([]*Entry, error) {
	var entries []*Entry
	err := e.store.Update(ctx, roomID, func(tx Tx) error {
		if err := e.policy.CanManage(ctx, tx, actor); err != nil {
			return err
		}
		var err error
		entries, err = e.rollForRoster(ctx, tx)
		return err
	})
	if err != nil {
		return nil, e.translate(err, roomID, "rolling initiative for room")
	}
	return entries, nil
}

// Queue returns the current round's entries in turn order: total descending,
// ties broken by character name ascending.
func (e *Engine) Queue(ctx context.Context, roomID int64) ([]*Entry, error) {
	snap, err := e.Snapshot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return snap.Queue, nil
}

// CurrentTurn returns the entry at the room's turn index, or nil when the
// queue is empty or the index is out of bounds.
func (e *Engine) CurrentTurn(ctx context.Context, roomID int64) (*Entry, error) {
	snap, err := e.Snapshot(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return snap.Current(), nil
}

// Snapshot returns the room's turn state and ordered queue in one read.
func (e *Engine) Snapshot(ctx context.Context, roomID int64) (*Snapshot, error) {
	var snap Snapshot
	err := e.store.View(ctx, roomID, func(tx Tx) error {
		r := tx.Room()
		queue, err := e.queue(ctx, tx)
		if err != nil {
			return err
		}
		roster, err := tx.Roster(ctx)
		if err != nil {
			return err
		}
		snap = Snapshot{
			RoomID: r.ID,
			Turn:   r.Turn,
			Queue:  queue,
			State:  r.Turn.State().String(),
			Roster: len(roster),
		}
		return nil
	})
	if err != nil {
		return nil, e.translate(err, roomID, "reading initiative")
	}
	return &snap, nil
}

func (e *Engine) rollForRoster(ctx context.Context, tx Tx) ([]*Entry, error) {
	roster, err := tx.Roster(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]*Entry, 0, len(roster))
	for _, c := range roster {
		entry, err := e.rollFor(ctx, tx, c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *Engine) rollFor(ctx context.Context, tx Tx, c *character.Character) (*Entry, error) {
	r := tx.Room()
	entry, err := tx.EnsureEntry(ctx, Key{RoomID: r.ID, CharacterID: c.ID, Round: r.Turn.Round})
	if err != nil {
		return nil, err
	}
	entry.Apply(c, e.roller.D20(c.InitiativeModifier()))
	if err := tx.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (e *Engine) queue(ctx context.Context, tx Tx) ([]*Entry, error) {
	entries, err := tx.Entries(ctx, tx.Room().Turn.Round)
	if err != nil {
		return nil, err
	}
	SortQueue(entries)
	return entries, nil
}

func (e *Engine) publish(ctx context.Context, typ EventType, roomID int64, turn room.TurnState, current *Entry) {
	ev := Event{
		Type:      typ,
		RoomID:    roomID,
		Round:     turn.Round,
		TurnIndex: turn.TurnIndex,
		Active:    turn.Active,
		Current:   current,
		At:        e.now(),
	}
	if err := e.notifier.Publish(ctx, ev); err != nil {
		e.logger.Warn("publishing initiative event",
			zap.String("type", string(typ)),
			zap.Int64("room_id", roomID),
			zap.Error(err),
		)
	}
}

// translate maps store sentinels onto the error taxonomy.
func (e *Engine) translate(err error, roomID int64, op string) error {
	var coded *errors.Error
	switch {
	case stderrors.Is(err, room.ErrNotFound):
		return errors.NotFoundf("room %d not found", roomID).WithMeta("room_id", roomID)
	case stderrors.Is(err, character.ErrNotFound):
		return errors.WrapWithCode(err, errors.CodeNotFound, op)
	case stderrors.As(err, &coded):
		return coded
	}
	e.logger.Error(op, zap.Int64("room_id", roomID), zap.Error(err))
	return errors.Wrap(err, op)
}

func findCharacter(roster []*character.Character, id int64) *character.Character {
	for _, c := range roster {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func firstOrNil(queue []*Entry) *Entry {
	if len(queue) == 0 {
		return nil
	}
	return queue[0]
}
