package battleship

import (
	"testing"

	"github.com/danielawaser/devops-project/internal/games"
)

// placeFleet lays both fleets in fixed rows so tests can shoot at known
// coordinates.
func placeFleet(t *testing.T, g *Game) {
	t.Helper()

	for player := 0; player < PlayerCount; player++ {
		for i, ship := range fleet {
			location := make([]string, ship.Length)
			for k := 0; k < ship.Length; k++ {
				location[k] = cell(i, k)
			}
			action := Action{Type: ActionSetShip, ShipName: ship.Name, Location: location}
			if err := g.ApplyAction(action); err != nil {
				t.Fatalf("placing %s for player %d: %v", ship.Name, player, err)
			}
		}
	}
}

func TestSetupPhaseOrdering(t *testing.T) {
	g := New(games.Options{})

	if g.Phase() != games.PhaseSetup {
		t.Fatalf("phase = %s, want setup", g.Phase())
	}

	actions := g.legalActions()
	if len(actions) == 0 {
		t.Fatal("no setup actions for first ship")
	}
	if actions[0].Type != ActionSetShip || actions[0].ShipName != "Carrier" {
		t.Errorf("first setup action = %+v, want Carrier placement", actions[0])
	}
}

func TestFleetPlacementStartsGame(t *testing.T) {
	g := New(games.Options{})
	placeFleet(t, g)

	if g.Phase() != games.PhaseRunning {
		t.Fatalf("phase = %s after full placement, want running", g.Phase())
	}
	if g.ActivePlayer() != 0 {
		t.Errorf("active player = %d, want 0", g.ActivePlayer())
	}
}

func TestOverlappingShipRejected(t *testing.T) {
	g := New(games.Options{})

	first := Action{Type: ActionSetShip, ShipName: "Carrier", Location: []string{"A1", "A2", "A3", "A4", "A5"}}
	if err := g.ApplyAction(first); err != nil {
		t.Fatalf("placing Carrier: %v", err)
	}

	overlap := Action{Type: ActionSetShip, ShipName: "Battleship", Location: []string{"A3", "A4", "A5", "A6"}}
	if err := g.ApplyAction(overlap); err == nil {
		t.Error("overlapping placement accepted, want error")
	}
}

func TestShotHitAndTurnRotation(t *testing.T) {
	g := New(games.Options{})
	placeFleet(t, g)

	// A1 is a Carrier cell of player 2's fleet.
	if err := g.ApplyAction(Action{Type: ActionShoot, Location: []string{"A1"}}); err != nil {
		t.Fatalf("shooting A1: %v", err)
	}

	p1 := g.state.Players[0]
	if len(p1.SuccessfulShots) != 1 || p1.SuccessfulShots[0] != "A1" {
		t.Errorf("successful shots = %v, want [A1]", p1.SuccessfulShots)
	}
	if g.ActivePlayer() != 1 {
		t.Errorf("active player = %d after shot, want 1", g.ActivePlayer())
	}

	// Shooting the same cell twice is rejected for the same player.
	if err := g.ApplyAction(Action{Type: ActionShoot, Location: []string{"J10"}}); err != nil {
		t.Fatalf("player 2 shooting J10: %v", err)
	}
	if err := g.ApplyAction(Action{Type: ActionShoot, Location: []string{"A1"}}); err == nil {
		t.Error("repeated shot accepted, want error")
	}
}

func TestSinkingFleetFinishesGame(t *testing.T) {
	g := New(games.Options{})
	placeFleet(t, g)

	// Player 1 shoots every fleet cell; player 2 wastes shots on empty
	// water (rows F onwards hold no ships).
	waste := 0
	for _, ship := range fleetCells() {
		if err := g.ApplyAction(Action{Type: ActionShoot, Location: []string{ship}}); err != nil {
			t.Fatalf("player 1 shooting %s: %v", ship, err)
		}
		if g.Phase() == games.PhaseFinished {
			break
		}
		target := cell(5+waste/GridSize, waste%GridSize)
		waste++
		if err := g.ApplyAction(Action{Type: ActionShoot, Location: []string{target}}); err != nil {
			t.Fatalf("player 2 shooting %s: %v", target, err)
		}
	}

	if g.Phase() != games.PhaseFinished {
		t.Fatalf("phase = %s, want finished", g.Phase())
	}
	if g.Winner() != 0 {
		t.Errorf("winner = %d, want 0", g.Winner())
	}
}

func TestViewMasksOpponentShips(t *testing.T) {
	g := New(games.Options{})
	placeFleet(t, g)

	view, err := g.View(0)
	if err != nil {
		t.Fatalf("View() error: %v", err)
	}

	state := view.(State)
	for _, ship := range state.Players[1].Ships {
		if len(ship.Location) != 0 {
			t.Errorf("opponent ship %s locations visible: %v", ship.Name, ship.Location)
		}
	}
	for _, ship := range state.Players[0].Ships {
		if len(ship.Location) == 0 {
			t.Errorf("own ship %s locations masked", ship.Name)
		}
	}

	// The view must not leak through shared state.
	if len(g.state.Players[1].Ships[0].Location) == 0 {
		t.Error("masking mutated the underlying state")
	}
}

func TestAdvancePlaysLegalMoves(t *testing.T) {
	g := New(games.Options{Seed: 11})

	for i := 0; i < 2*len(fleet); i++ {
		if _, err := g.Advance(); err != nil {
			t.Fatalf("Advance() during setup: %v", err)
		}
	}
	if g.Phase() != games.PhaseRunning {
		t.Fatalf("phase = %s after random setup, want running", g.Phase())
	}

	for i := 0; i < 500 && g.Phase() == games.PhaseRunning; i++ {
		if _, err := g.Advance(); err != nil {
			t.Fatalf("Advance() during play: %v", err)
		}
	}
	if g.Phase() != games.PhaseFinished {
		t.Errorf("game not finished after 500 random shots")
	}
}

// fleetCells returns every cell occupied by the fixed test placement.
func fleetCells() []string {
	var cells []string
	for i, ship := range fleet {
		for k := 0; k < ship.Length; k++ {
			cells = append(cells, cell(i, k))
		}
	}
	return cells
}
