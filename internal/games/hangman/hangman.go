package hangman

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/danielawaser/devops-project/internal/games"
)

// MaxIncorrectGuesses is the number of wrong guesses that lose the game,
// one per drawing stage of the gallows.
const MaxIncorrectGuesses = 8

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// defaultWords is used when no secret word is supplied at setup.
var defaultWords = []string{
	"battleship", "container", "deployment", "pipeline", "revision",
}

type Action struct {
	Letter string `json:"letter"`
}

type State struct {
	Word             string      `json:"word_to_guess"`
	Phase            games.Phase `json:"phase"`
	Guesses          []string    `json:"guesses"`
	IncorrectGuesses []string    `json:"incorrect_guesses"`
}

type Game struct {
	state State
	rand  *rand.Rand
}

func init() {
	games.Register(games.TypeHangman, func(opts games.Options) (games.Engine, error) {
		return New(opts)
	})
}

func New(opts games.Options) (*Game, error) {

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	word := strings.ToLower(opts.Word)
	if word == "" {
		word = defaultWords[rng.Intn(len(defaultWords))]
	}

	for _, r := range word {
		if !strings.ContainsRune(alphabet, r) {
			return nil, fmt.Errorf("word contains non-alphabetic character: %q", r)
		}
	}

	return &Game{
		state: State{
			Word:             word,
			Phase:            games.PhaseRunning,
			Guesses:          []string{},
			IncorrectGuesses: []string{},
		},
		rand: rng,
	}, nil
}

func (g *Game) Type() string       { return games.TypeHangman }
func (g *Game) Phase() games.Phase { return g.state.Phase }
func (g *Game) PlayerCount() int   { return 1 }
func (g *Game) ActivePlayer() int  { return 0 }

func (g *Game) State() any { return g.state }

// View masks the letters of the secret word that have not been guessed.
func (g *Game) View(player int) (any, error) {

	if player != 0 {
		return nil, fmt.Errorf("invalid player index: %d", player)
	}

	masked := make([]byte, len(g.state.Word))
	for i := 0; i < len(g.state.Word); i++ {
		letter := string(g.state.Word[i])
		if slices.Contains(g.state.Guesses, letter) {
			masked[i] = g.state.Word[i]
		} else {
			masked[i] = '_'
		}
	}

	view := g.state
	view.Word = string(masked)
	return view, nil
}

func (g *Game) Actions() []any {

	if g.state.Phase != games.PhaseRunning {
		return nil
	}

	var actions []any
	for _, r := range alphabet {
		letter := string(r)
		if !slices.Contains(g.state.Guesses, letter) && !slices.Contains(g.state.IncorrectGuesses, letter) {
			actions = append(actions, Action{Letter: letter})
		}
	}
	return actions
}

func (g *Game) Apply(raw json.RawMessage) error {

	var action Action
	if err := json.Unmarshal(raw, &action); err != nil {
		return fmt.Errorf("failed to decode action: %w", err)
	}
	return g.Guess(action)
}

// Guess applies a single letter guess.
func (g *Game) Guess(action Action) error {

	if g.state.Phase != games.PhaseRunning {
		return errors.New("game is not running")
	}

	letter := strings.ToLower(action.Letter)
	if len(letter) != 1 || !strings.Contains(alphabet, letter) {
		return fmt.Errorf("a guess must be a single alphabetic character, got %q", action.Letter)
	}
	if slices.Contains(g.state.Guesses, letter) || slices.Contains(g.state.IncorrectGuesses, letter) {
		return fmt.Errorf("letter already guessed: %s", letter)
	}

	if strings.Contains(g.state.Word, letter) {
		g.state.Guesses = append(g.state.Guesses, letter)
		if g.wordGuessed() {
			g.state.Phase = games.PhaseFinished
		}
	} else {
		g.state.IncorrectGuesses = append(g.state.IncorrectGuesses, letter)
		if len(g.state.IncorrectGuesses) >= MaxIncorrectGuesses {
			g.state.Phase = games.PhaseFinished
		}
	}

	return nil
}

func (g *Game) Advance() (any, error) {

	actions := g.Actions()
	if len(actions) == 0 {
		return nil, nil
	}

	action := actions[g.rand.Intn(len(actions))].(Action)
	if err := g.Guess(action); err != nil {
		return nil, err
	}
	return action, nil
}

// Won reports whether the word was fully guessed before the gallows was
// completed.
func (g *Game) Won() bool {
	return g.state.Phase == games.PhaseFinished && g.wordGuessed()
}

func (g *Game) wordGuessed() bool {
	for i := 0; i < len(g.state.Word); i++ {
		if !slices.Contains(g.state.Guesses, string(g.state.Word[i])) {
			return false
		}
	}
	return true
}
