package games

import (
	"encoding/json"
	"fmt"
	"sort"
)

type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseRunning  Phase = "running"
	PhaseFinished Phase = "finished"
)

const (
	TypeBattleship = "battleship"
	TypeDog        = "dog"
	TypeHangman    = "hangman"
)

// Engine is the game-agnostic surface the session server drives. Engines
// are not safe for concurrent use; callers serialise access per session.
type Engine interface {

	// Type returns the game type identifier.
	Type() string

	// Phase returns the current game phase.
	Phase() Phase

	// PlayerCount returns the number of seats in the game.
	PlayerCount() int

	// ActivePlayer returns the index of the player whose turn it is.
	ActivePlayer() int

	// State returns the complete, unmasked game state. The returned
	// value is JSON-encodable.
	State() any

	// View returns the state as visible to the given player, with
	// hidden information masked.
	View(player int) (any, error)

	// Actions returns the legal actions for the active player.
	Actions() []any

	// Apply decodes a game-specific action and applies it.
	Apply(action json.RawMessage) error

	// Advance applies a uniformly random legal action on behalf of the
	// active player and returns it. A nil action with a nil error means
	// the player had no legal action and the turn was passed.
	Advance() (any, error)
}

// Options carries game-specific setup parameters for a new engine.
type Options struct {
	// Word is the secret word for hangman. A random built-in word is
	// chosen when empty.
	Word string `json:"word,omitempty"`

	// Seed fixes the random source when non-zero, for reproducible
	// games in tests.
	Seed int64 `json:"seed,omitempty"`
}

// Factory creates a fresh engine for one game type.
type Factory func(Options) (Engine, error)

var registry = map[string]Factory{}

// Register makes a game type available to New. It is called from the
// game packages' init functions.
func Register(gameType string, f Factory) {
	if _, ok := registry[gameType]; ok {
		panic(fmt.Sprintf("game type already registered: %s", gameType))
	}
	registry[gameType] = f
}

// Types returns the registered game type identifiers in sorted order.
func Types() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func New(gameType string, opts Options) (Engine, error) {
	f, ok := registry[gameType]
	if !ok {
		return nil, fmt.Errorf("unknown game type: %s", gameType)
	}
	return f(opts)
}
