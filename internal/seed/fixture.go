// Package seed loads YAML fixtures of accounts, characters and rooms and
// applies them idempotently to a store.
package seed

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
)

// Fixture is the top-level seed document.
type Fixture struct {
	Accounts   []AccountSpec   `yaml:"accounts"`
	Characters []CharacterSpec `yaml:"characters"`
	Rooms      []RoomSpec      `yaml:"rooms"`
}

// AccountSpec describes a login. Password is stored hashed.
type AccountSpec struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// CharacterSpec describes a character owned by an account in the fixture.
// Abilities not listed default to character.DefaultScore.
type CharacterSpec struct {
	Name        string         `yaml:"name"`
	Owner       string         `yaml:"owner"`
	Type        character.Type `yaml:"type"`
	Description string         `yaml:"description,omitempty"`
	Abilities   map[string]int `yaml:"abilities,omitempty"`
	HitPoints   int            `yaml:"hit_points,omitempty"`
	Speed       int            `yaml:"speed,omitempty"`
}

// RoomSpec describes a room. Players are usernames; Roster holds character names.
type RoomSpec struct {
	Name        string   `yaml:"name"`
	Code        string   `yaml:"code"`
	Description string   `yaml:"description,omitempty"`
	Story       string   `yaml:"story,omitempty"`
	Master      string   `yaml:"master"`
	Players     []string `yaml:"players,omitempty"`
	Roster      []string `yaml:"roster,omitempty"`
}

// LoadFile reads and validates the fixture at path.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a fixture. Unknown keys are rejected.
func Parse(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks cross references and required fields, reporting every problem.
func (f *Fixture) Validate() error {
	var errs []string
	accounts := make(map[string]bool, len(f.Accounts))
	for i, a := range f.Accounts {
		switch {
		case a.Username == "":
			errs = append(errs, fmt.Sprintf("accounts[%d]: username is required", i))
		case accounts[a.Username]:
			errs = append(errs, fmt.Sprintf("accounts[%d]: duplicate username %q", i, a.Username))
		}
		if a.Password == "" {
			errs = append(errs, fmt.Sprintf("accounts[%d]: password is required", i))
		}
		accounts[a.Username] = true
	}

	characters := make(map[string]bool, len(f.Characters))
	for i, c := range f.Characters {
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("characters[%d]: name is required", i))
		} else if characters[c.Name] {
			errs = append(errs, fmt.Sprintf("characters[%d]: duplicate name %q", i, c.Name))
		}
		characters[c.Name] = true
		if !accounts[c.Owner] {
			errs = append(errs, fmt.Sprintf("character %q: unknown owner %q", c.Name, c.Owner))
		}
		if !c.Type.Valid() {
			errs = append(errs, fmt.Sprintf("character %q: invalid type %q", c.Name, c.Type))
		}
		if _, err := c.abilities(); err != nil {
			errs = append(errs, fmt.Sprintf("character %q: %v", c.Name, err))
		}
	}

	codes := make(map[string]bool, len(f.Rooms))
	for i, r := range f.Rooms {
		code := strings.ToUpper(r.Code)
		switch {
		case r.Name == "":
			errs = append(errs, fmt.Sprintf("rooms[%d]: name is required", i))
		case code == "" || len(code) > room.MaxCodeLength:
			errs = append(errs, fmt.Sprintf("room %q: code must be 1-%d characters", r.Name, room.MaxCodeLength))
		case codes[code]:
			errs = append(errs, fmt.Sprintf("room %q: duplicate code %q", r.Name, r.Code))
		}
		codes[code] = true
		if !accounts[r.Master] {
			errs = append(errs, fmt.Sprintf("room %q: unknown master %q", r.Name, r.Master))
		}
		for _, p := range r.Players {
			if !accounts[p] {
				errs = append(errs, fmt.Sprintf("room %q: unknown player %q", r.Name, p))
			}
		}
		for _, n := range r.Roster {
			if !characters[n] {
				errs = append(errs, fmt.Sprintf("room %q: unknown character %q", r.Name, n))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid fixture: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c CharacterSpec) abilities() (character.AbilityScores, error) {
	a := character.DefaultAbilityScores()
	fields := map[string]*int{
		"strength":     &a.Strength,
		"dexterity":    &a.Dexterity,
		"constitution": &a.Constitution,
		"intelligence": &a.Intelligence,
		"wisdom":       &a.Wisdom,
		"charisma":     &a.Charisma,
	}
	for name, score := range c.Abilities {
		p, ok := fields[strings.ToLower(name)]
		if !ok {
			return a, fmt.Errorf("unknown ability %q", name)
		}
		*p = score
	}
	return a, nil
}

// build returns the character described by c, owned by ownerID.
func (c CharacterSpec) build(ownerID int64) (*character.Character, error) {
	abilities, err := c.abilities()
	if err != nil {
		return nil, err
	}
	ch := character.New(ownerID, c.Name, c.Type)
	ch.Description = c.Description
	ch.Abilities = abilities
	if c.HitPoints > 0 {
		ch.HitPoints = c.HitPoints
	}
	if c.Speed > 0 {
		ch.Speed = c.Speed
	}
	ch.Normalize()
	return ch, nil
}
