package battleship

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/danielawaser/devops-project/internal/games"
)

const (
	ActionSetShip = "set_ship"
	ActionShoot   = "shoot"
)

const (
	GridSize    = 10
	PlayerCount = 2
)

// fleet is the set of ships each player places during setup.
var fleet = []struct {
	Name   string
	Length int
}{
	{"Carrier", 5},
	{"Battleship", 4},
	{"Cruiser", 3},
	{"Submarine", 3},
	{"Destroyer", 2},
}

type Action struct {
	Type     string   `json:"type"`
	ShipName string   `json:"ship_name,omitempty"`
	Location []string `json:"location"`
}

type Ship struct {
	Name     string   `json:"name"`
	Length   int      `json:"length"`
	Location []string `json:"location"`
}

type PlayerState struct {
	Name            string   `json:"name"`
	Ships           []*Ship  `json:"ships"`
	Shots           []string `json:"shots"`
	SuccessfulShots []string `json:"successful_shots"`
}

type State struct {
	ActivePlayer int            `json:"idx_player_active"`
	Phase        games.Phase    `json:"phase"`
	Winner       *int           `json:"winner"`
	Players      []*PlayerState `json:"players"`
}

type Game struct {
	state State
	rand  *rand.Rand
}

func init() {
	games.Register(games.TypeBattleship, func(opts games.Options) (games.Engine, error) {
		return New(opts), nil
	})
}

func New(opts games.Options) *Game {

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	players := make([]*PlayerState, PlayerCount)
	for i := range players {
		players[i] = &PlayerState{
			Name:            fmt.Sprintf("Player %d", i+1),
			Ships:           []*Ship{},
			Shots:           []string{},
			SuccessfulShots: []string{},
		}
	}

	return &Game{
		state: State{
			ActivePlayer: 0,
			Phase:        games.PhaseSetup,
			Players:      players,
		},
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (g *Game) Type() string       { return games.TypeBattleship }
func (g *Game) Phase() games.Phase { return g.state.Phase }
func (g *Game) PlayerCount() int   { return PlayerCount }
func (g *Game) ActivePlayer() int  { return g.state.ActivePlayer }

func (g *Game) State() any { return g.state }

// View masks the opponent's ship locations; shots and hits stay visible.
func (g *Game) View(player int) (any, error) {

	if player < 0 || player >= PlayerCount {
		return nil, fmt.Errorf("invalid player index: %d", player)
	}

	view := g.state
	view.Players = make([]*PlayerState, PlayerCount)

	for i, p := range g.state.Players {
		cp := *p
		if i != player {
			cp.Ships = make([]*Ship, len(p.Ships))
			for j, ship := range p.Ships {
				cp.Ships[j] = &Ship{Name: ship.Name, Length: ship.Length, Location: []string{}}
			}
		}
		view.Players[i] = &cp
	}

	return view, nil
}

func (g *Game) Actions() []any {
	var actions []any
	for _, a := range g.legalActions() {
		actions = append(actions, a)
	}
	return actions
}

func (g *Game) legalActions() []Action {

	var actions []Action
	active := g.state.Players[g.state.ActivePlayer]

	switch g.state.Phase {
	case games.PhaseSetup:
		if len(active.Ships) < len(fleet) {
			next := fleet[len(active.Ships)]
			for row := 0; row < GridSize; row++ {
				for col := 0; col <= GridSize-next.Length; col++ {
					location := make([]string, next.Length)
					for k := 0; k < next.Length; k++ {
						location[k] = cell(row, col+k)
					}
					actions = append(actions, Action{
						Type:     ActionSetShip,
						ShipName: next.Name,
						Location: location,
					})
				}
			}
		}
	case games.PhaseRunning:
		for row := 0; row < GridSize; row++ {
			for col := 0; col < GridSize; col++ {
				target := cell(row, col)
				if !slices.Contains(active.Shots, target) {
					actions = append(actions, Action{Type: ActionShoot, Location: []string{target}})
				}
			}
		}
	}

	return actions
}

func (g *Game) Apply(raw json.RawMessage) error {

	var action Action
	if err := json.Unmarshal(raw, &action); err != nil {
		return fmt.Errorf("failed to decode action: %w", err)
	}
	return g.ApplyAction(action)
}

func (g *Game) ApplyAction(action Action) error {

	switch action.Type {
	case ActionSetShip:
		return g.setShip(action)
	case ActionShoot:
		return g.shoot(action)
	default:
		return fmt.Errorf("unknown action type: %s", action.Type)
	}
}

func (g *Game) setShip(action Action) error {

	if g.state.Phase != games.PhaseSetup {
		return errors.New("ships can only be placed during setup")
	}

	active := g.state.Players[g.state.ActivePlayer]

	if len(active.Ships) >= len(fleet) {
		return errors.New("all ships already placed")
	}

	next := fleet[len(active.Ships)]
	if action.ShipName != next.Name {
		return fmt.Errorf("expected ship %s, got %s", next.Name, action.ShipName)
	}
	if len(action.Location) != next.Length {
		return fmt.Errorf("ship %s requires %d cells, got %d", next.Name, next.Length, len(action.Location))
	}

	for _, c := range action.Location {
		for _, ship := range active.Ships {
			if slices.Contains(ship.Location, c) {
				return fmt.Errorf("cell %s already occupied by %s", c, ship.Name)
			}
		}
	}

	active.Ships = append(active.Ships, &Ship{
		Name:     next.Name,
		Length:   next.Length,
		Location: slices.Clone(action.Location),
	})

	// Both fleets placed moves the game into the shooting phase.
	allPlaced := true
	for _, p := range g.state.Players {
		if len(p.Ships) != len(fleet) {
			allPlaced = false
		}
	}
	if allPlaced {
		g.state.Phase = games.PhaseRunning
		g.state.ActivePlayer = 0
	} else if len(active.Ships) == len(fleet) {
		g.state.ActivePlayer = 1 - g.state.ActivePlayer
	}

	return nil
}

func (g *Game) shoot(action Action) error {

	if g.state.Phase != games.PhaseRunning {
		return errors.New("shooting is only allowed while the game is running")
	}
	if len(action.Location) != 1 {
		return errors.New("a shot targets exactly one cell")
	}

	target := action.Location[0]
	active := g.state.Players[g.state.ActivePlayer]

	if slices.Contains(active.Shots, target) {
		return fmt.Errorf("cell %s was already targeted", target)
	}

	active.Shots = append(active.Shots, target)

	opponent := g.state.Players[1-g.state.ActivePlayer]
	for _, ship := range opponent.Ships {
		if idx := slices.Index(ship.Location, target); idx >= 0 {
			active.SuccessfulShots = append(active.SuccessfulShots, target)
			ship.Location = slices.Delete(ship.Location, idx, idx+1)
			break
		}
	}

	sunk := true
	for _, ship := range opponent.Ships {
		if len(ship.Location) > 0 {
			sunk = false
		}
	}

	if sunk {
		winner := g.state.ActivePlayer
		g.state.Phase = games.PhaseFinished
		g.state.Winner = &winner
		return nil
	}

	g.state.ActivePlayer = 1 - g.state.ActivePlayer
	return nil
}

func (g *Game) Advance() (any, error) {

	actions := g.legalActions()
	if len(actions) == 0 {
		return nil, nil
	}

	action := actions[g.rand.Intn(len(actions))]
	if err := g.ApplyAction(action); err != nil {
		return nil, err
	}
	return action, nil
}

// Winner returns the index of the winning player, or -1 while the game
// is undecided.
func (g *Game) Winner() int {
	if g.state.Winner == nil {
		return -1
	}
	return *g.state.Winner
}

// cell formats a grid coordinate as "A1".."J10".
func cell(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row, col+1)
}
