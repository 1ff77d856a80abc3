package room

// State is the initiative state of a room.
type State int

const (
	// StateIdle means initiative has not been started, or was reset.
	StateIdle State = iota
	// StateActive means a round is in progress.
	StateActive
)

// String returns a lower-case label for s.
func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "idle"
}

// TurnState is the round/turn pointer a room carries between requests.
//
// Invariant: while Active and the round's queue is non-empty, TurnIndex < len(queue).
type TurnState struct {
	Active    bool `json:"active"`
	Round     int  `json:"round"`
	TurnIndex int  `json:"turn_index"`
}

// State returns StateActive or StateIdle.
func (t TurnState) State() State {
	if t.Active {
		return StateActive
	}
	return StateIdle
}

// Start opens a new round. Starting while active abandons the old round.
//
// Postcondition: Active; Round incremented by one; TurnIndex == 0.
func (t *TurnState) Start() {
	t.Active = true
	t.Round++
	t.TurnIndex = 0
}

// Advance moves the pointer to the next slot of a queue of length queueLen,
// wrapping to 0 after the last slot. The round number does not change on wrap.
//
// Postcondition: returns false and leaves t untouched when inactive or queueLen == 0.
func (t *TurnState) Advance(queueLen int) bool {
	if !t.Active || queueLen <= 0 {
		return false
	}
	t.TurnIndex = (t.TurnIndex + 1) % queueLen
	return true
}

// Reset returns the room to idle. The round counter is kept so the next
// Start opens a round number never used before.
//
// Postcondition: !Active; TurnIndex == 0; Round unchanged.
func (t *TurnState) Reset() {
	t.Active = false
	t.TurnIndex = 0
}

// CurrentIndex returns TurnIndex when it addresses a slot of a queue of
// length queueLen.
func (t TurnState) CurrentIndex(queueLen int) (int, bool) {
	if t.TurnIndex < 0 || t.TurnIndex >= queueLen {
		return 0, false
	}
	return t.TurnIndex, true
}
