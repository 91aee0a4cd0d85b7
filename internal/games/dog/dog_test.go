package dog

import (
	"testing"

	"github.com/danielawaser/devops-project/internal/games"
)

func intPtr(i int) *int { return &i }

func TestGameInitialization(t *testing.T) {
	g := New(games.Options{Seed: 1})

	if g.Phase() != games.PhaseRunning {
		t.Errorf("phase = %s, want running", g.Phase())
	}
	if len(g.state.Players) != playerCount {
		t.Fatalf("players = %d, want %d", len(g.state.Players), playerCount)
	}
	for i, p := range g.state.Players {
		if len(p.Cards) != cardsPerDeal {
			t.Errorf("player %d cards = %d, want %d", i, len(p.Cards), cardsPerDeal)
		}
		if len(p.Marbles) != marblesPerPlayer {
			t.Errorf("player %d marbles = %d, want %d", i, len(p.Marbles), marblesPerPlayer)
		}
		for _, m := range p.Marbles {
			if !isKennelPosition(m.Pos) {
				t.Errorf("player %d marble starts at %d, want kennel", i, m.Pos)
			}
		}
	}
	if got := len(g.state.DrawPile); got != 110-playerCount*cardsPerDeal {
		t.Errorf("draw pile = %d, want %d", got, 110-playerCount*cardsPerDeal)
	}
	if len(g.state.DiscardPile) != 0 {
		t.Errorf("discard pile = %d, want empty", len(g.state.DiscardPile))
	}
}

func TestMarbleMovement(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]
	marble.Pos = 10
	marble.IsSave = true

	card := Card{Suit: "♠", Rank: "5"}
	g.state.Players[0].Cards = []Card{card}

	action := Action{Card: card, PosFrom: intPtr(10), PosTo: intPtr(15)}
	if err := g.ApplyAction(&action); err != nil {
		t.Fatalf("ApplyAction() error: %v", err)
	}
	if marble.Pos != 15 {
		t.Errorf("marble pos = %d, want 15", marble.Pos)
	}
	if marble.IsSave {
		t.Error("marble still save after moving off the start")
	}
	if g.ActivePlayer() != 1 {
		t.Errorf("active player = %d, want 1", g.ActivePlayer())
	}
}

func TestKingStartsMarble(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]

	card := Card{Suit: "♣", Rank: RankKing}
	g.state.Players[0].Cards = []Card{card}

	action := Action{Card: card, PosFrom: intPtr(marble.Pos), PosTo: intPtr(startPosition(0))}
	if err := g.ApplyAction(&action); err != nil {
		t.Fatalf("ApplyAction() error: %v", err)
	}
	if marble.Pos != startPosition(0) {
		t.Errorf("marble pos = %d, want start %d", marble.Pos, startPosition(0))
	}
	if !marble.IsSave {
		t.Error("freshly started marble is not save")
	}
}

func TestAceMovesOne(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]
	marble.Pos = 30
	marble.IsSave = true

	card := Card{Suit: "♥", Rank: RankAce}
	g.state.Players[0].Cards = []Card{card}

	action := Action{Card: card, PosFrom: intPtr(30), PosTo: intPtr(31)}
	if err := g.ApplyAction(&action); err != nil {
		t.Fatalf("ApplyAction() error: %v", err)
	}
	if marble.Pos != 31 {
		t.Errorf("marble pos = %d, want 31", marble.Pos)
	}
}

func TestProtectedMarble(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]
	marble.Pos = startPosition(0)
	marble.IsSave = true

	if !g.IsProtectedMarble(marble) {
		t.Error("marble on own start with save flag not protected")
	}

	if err := g.OvertakeMarble(marble.Pos); err == nil {
		t.Error("overtaking a protected marble accepted, want error")
	}
}

func TestOvertakeSendsMarbleHome(t *testing.T) {
	g := New(games.Options{Seed: 1})
	m1 := g.state.Players[0].Marbles[0]
	m2 := g.state.Players[1].Marbles[0]

	m1.Pos = 9
	m1.IsSave = false
	m2.Pos = 10
	m2.IsSave = false

	if err := g.OvertakeMarble(10); err != nil {
		t.Fatalf("OvertakeMarble() error: %v", err)
	}
	if !isKennelPosition(m2.Pos) || kennelOwner(m2.Pos) != 1 {
		t.Errorf("overtaken marble at %d, want player 1 kennel", m2.Pos)
	}
}

func TestJokerActsAsAnyCard(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]
	marble.Pos = 10
	marble.IsSave = true

	card := Card{Rank: RankJoker}
	g.state.Players[0].Cards = []Card{card}

	actions := g.ActionsForCard(card, g.state.Players[0])
	if len(actions) == 0 {
		t.Fatal("joker offers no actions")
	}

	action := Action{Card: card, PosFrom: intPtr(10), PosTo: intPtr(15)}
	if err := g.ApplyAction(&action); err != nil {
		t.Fatalf("ApplyAction() error: %v", err)
	}
	if marble.Pos != 15 {
		t.Errorf("marble pos = %d, want 15", marble.Pos)
	}
}

func TestActionsForCard(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]
	marble.Pos = 10
	marble.IsSave = true

	card := Card{Suit: "♠", Rank: RankFour}
	actions := g.ActionsForCard(card, g.state.Players[0])
	if len(actions) == 0 {
		t.Fatal("no actions for a four with a marble on the track")
	}

	// The four moves forwards and backwards.
	var forward, backward bool
	for _, a := range actions {
		switch *a.PosTo {
		case 14:
			forward = true
		case 6:
			backward = true
		}
	}
	if !forward || !backward {
		t.Errorf("four actions forward=%v backward=%v, want both", forward, backward)
	}
}

func TestFinishAreaEntry(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]

	marble.Pos = 60
	marble.IsSave = false

	if err := g.MoveToFinish(marble, 0, 4); err != nil {
		t.Fatalf("MoveToFinish() error: %v", err)
	}
	if !g.IsInFinishArea(marble, 0) {
		t.Errorf("marble at %d, want finish area of player 0", marble.Pos)
	}

	// Marbles in the finish cannot be sent home.
	g.SendHome(marble.Pos)
	if !g.IsInFinishArea(marble, 0) {
		t.Error("finish marble was sent home")
	}
}

func TestSaveMarbleSkipsFinish(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]

	// A save marble has not completed the lap and passes its start on
	// the track.
	marble.Pos = 60
	marble.IsSave = true

	to, err := g.destination(0, marble, 4)
	if err != nil {
		t.Fatalf("destination() error: %v", err)
	}
	if to != 0 {
		t.Errorf("destination = %d, want track position 0", to)
	}
}

func TestReshuffleDiscardPile(t *testing.T) {
	g := New(games.Options{Seed: 1})
	g.state.DrawPile = []Card{}
	g.state.DiscardPile = []Card{{Suit: "♠", Rank: "5"}}

	g.ReshuffleDiscardPile()
	if len(g.state.DrawPile) == 0 {
		t.Error("draw pile empty after reshuffle")
	}
	if len(g.state.DiscardPile) != 0 {
		t.Error("discard pile not empty after reshuffle")
	}
}

func TestInvalidMoves(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]

	// Marble in the kennel cannot make a simple move.
	if err := g.ApplySimpleMove(marble, marble.Pos+5); err == nil {
		t.Error("kennel marble moved, want error")
	}

	// Positions outside the board are rejected.
	marble.Pos = 10
	if err := g.ApplySimpleMove(marble, 200); err == nil {
		t.Error("move to invalid position accepted, want error")
	}

	// A nil action is rejected.
	if err := g.ApplyAction(nil); err == nil {
		t.Error("nil action accepted, want error")
	}
}

func TestSevenSplitsIntoSteps(t *testing.T) {
	g := New(games.Options{Seed: 1})
	player := g.state.Players[0]
	m1 := player.Marbles[0]
	m2 := player.Marbles[1]

	m1.Pos = 10
	m1.IsSave = true
	m2.Pos = 20
	m2.IsSave = true

	card := Card{Suit: "♥", Rank: RankSeven}
	player.Cards = []Card{card}

	actions := g.ActionsForCard(card, player)
	if len(actions) == 0 {
		t.Fatal("no actions for a seven with marbles on the track")
	}

	// Move four steps with the first marble; the turn must stay with
	// player 0 and three steps must remain.
	step := Action{Card: card, PosFrom: intPtr(10), PosTo: intPtr(14)}
	if err := g.ApplyAction(&step); err != nil {
		t.Fatalf("first seven step: %v", err)
	}
	if g.ActivePlayer() != 0 {
		t.Fatalf("active player = %d during seven, want 0", g.ActivePlayer())
	}
	if g.state.SevenSteps != 3 {
		t.Fatalf("remaining steps = %d, want 3", g.state.SevenSteps)
	}

	remaining := g.legalActions()
	if len(remaining) == 0 {
		t.Fatal("no actions for the remaining seven steps")
	}

	// Spend the remaining three steps with the second marble.
	step = Action{Card: card, PosFrom: intPtr(20), PosTo: intPtr(23)}
	if err := g.ApplyAction(&step); err != nil {
		t.Fatalf("second seven step: %v", err)
	}

	if g.state.ActiveCard != nil {
		t.Error("active card not cleared after seven completed")
	}
	if g.ActivePlayer() != 1 {
		t.Errorf("active player = %d after seven, want 1", g.ActivePlayer())
	}
	if len(player.Cards) != 0 {
		t.Errorf("seven not discarded, hand = %v", player.Cards)
	}
}

func TestSevenForfeitedWhenStepsBlocked(t *testing.T) {
	g := New(games.Options{Seed: 1})
	player := g.state.Players[0]

	// One marble on the track short of the finish entry; the other three
	// occupy the first finish cells, so every step shorter than four is
	// blocked once the runner stands on position 63.
	runner := player.Marbles[0]
	runner.Pos = 59
	runner.IsSave = false
	for i, m := range player.Marbles[1:] {
		m.Pos = finishPositions(0)[i]
		m.IsSave = false
	}

	card := Card{Suit: "♠", Rank: RankSeven}
	player.Cards = []Card{card}

	// An oversized first step must not start the split.
	tooFar := Action{Card: card, PosFrom: intPtr(59), PosTo: intPtr(3)}
	if err := g.ApplyAction(&tooFar); err == nil {
		t.Fatal("eight-step seven move accepted, want error")
	}
	if g.state.ActiveCard != nil {
		t.Fatal("rejected step started a split")
	}
	if len(player.Cards) != 1 {
		t.Fatalf("hand = %v after rejected step, want the seven", player.Cards)
	}

	// Four steps land on 63; the remaining three all hit occupied finish
	// cells.
	step := Action{Card: card, PosFrom: intPtr(59), PosTo: intPtr(63)}
	if err := g.ApplyAction(&step); err != nil {
		t.Fatalf("first seven step: %v", err)
	}
	if g.state.SevenSteps != 3 {
		t.Fatalf("remaining steps = %d, want 3", g.state.SevenSteps)
	}

	// No other card may be played while the split is open.
	jack := Action{Card: Card{Suit: "♠", Rank: RankJack}, PosFrom: intPtr(63), PosTo: intPtr(20)}
	if err := g.ApplyAction(&jack); err == nil {
		t.Fatal("jack accepted while a seven is in play, want error")
	}

	if actions := g.legalActions(); len(actions) != 0 {
		t.Fatalf("actions = %d with all steps blocked, want 0", len(actions))
	}

	// Folding the blocked split must not carry it into the next turn.
	if _, err := g.Advance(); err != nil {
		t.Fatalf("Advance() error: %v", err)
	}
	if g.state.ActiveCard != nil {
		t.Errorf("active card %v carried into the next turn", g.state.ActiveCard)
	}
	if g.state.SevenSteps != 0 {
		t.Errorf("seven steps = %d after fold, want 0", g.state.SevenSteps)
	}
	if g.ActivePlayer() != 1 {
		t.Errorf("active player = %d after fold, want 1", g.ActivePlayer())
	}

	var discarded int
	for _, c := range g.state.DiscardPile {
		if c == card {
			discarded++
		}
	}
	if discarded != 1 {
		t.Errorf("seven discarded %d times, want 1", discarded)
	}

	// The next player is only offered cards from their own hand.
	next := g.state.Players[1]
	for _, a := range g.legalActions() {
		held := false
		for _, c := range next.Cards {
			if c == a.Card {
				held = true
			}
		}
		if !held {
			t.Errorf("offered action with card %v the player does not hold", a.Card)
		}
	}
}

func TestMoveMustMatchCardDistance(t *testing.T) {
	g := New(games.Options{Seed: 1})
	marble := g.state.Players[0].Marbles[0]
	marble.Pos = 10
	marble.IsSave = true

	card := Card{Suit: "♦", Rank: "2"}
	g.state.Players[0].Cards = []Card{card}

	action := Action{Card: card, PosFrom: intPtr(10), PosTo: intPtr(40)}
	if err := g.ApplyAction(&action); err == nil {
		t.Fatal("two moved thirty cells, want error")
	}
	if marble.Pos != 10 {
		t.Errorf("marble pos = %d after rejected move, want 10", marble.Pos)
	}

	action = Action{Card: card, PosFrom: intPtr(10), PosTo: intPtr(12)}
	if err := g.ApplyAction(&action); err != nil {
		t.Fatalf("ApplyAction() error: %v", err)
	}
	if marble.Pos != 12 {
		t.Errorf("marble pos = %d, want 12", marble.Pos)
	}
}

func TestNoMarblesNoActions(t *testing.T) {
	g := New(games.Options{Seed: 1})
	player := g.state.Players[0]
	player.Marbles = []*Marble{}

	card := Card{Suit: "♠", Rank: RankFour}
	if actions := g.ActionsForCard(card, player); len(actions) != 0 {
		t.Errorf("actions = %d for player without marbles, want 0", len(actions))
	}
}

func TestKingWithAllMarblesFinished(t *testing.T) {
	g := New(games.Options{Seed: 1})
	player := g.state.Players[0]

	for i, m := range player.Marbles {
		m.Pos = finishPositions(0)[i]
		m.IsSave = false
	}

	card := Card{Suit: "♣", Rank: RankKing}
	player.Cards = []Card{card}

	// No kennel marble to start and no track marble to move 13: the
	// only offers would overshoot the finish area.
	if actions := g.ActionsForCard(card, player); len(actions) != 0 {
		t.Errorf("actions = %d, want 0", len(actions))
	}
}

func TestGameFinishDetection(t *testing.T) {
	g := New(games.Options{Seed: 1})
	player := g.state.Players[0]

	for i, m := range player.Marbles {
		m.Pos = finishPositions(0)[i]
		m.IsSave = false
	}

	if !g.IsGameFinished() {
		t.Fatal("game with a full finish area not finished")
	}
	if g.Winner() != 0 {
		t.Errorf("winner = %d, want 0", g.Winner())
	}
}

func TestProceedToNextPlayer(t *testing.T) {
	g := New(games.Options{Seed: 1})
	initial := g.ActivePlayer()

	g.ProceedToNextPlayer()
	if got := g.ActivePlayer(); got != (initial+1)%playerCount {
		t.Errorf("active player = %d, want %d", got, (initial+1)%playerCount)
	}
}

func TestEmptyHandsTriggerNewDeal(t *testing.T) {
	g := New(games.Options{Seed: 1})
	for _, p := range g.state.Players {
		g.state.DiscardPile = append(g.state.DiscardPile, p.Cards...)
		p.Cards = []Card{}
	}

	round := g.state.Round
	g.ProceedToNextPlayer()

	if g.state.Round != round+1 {
		t.Errorf("round = %d, want %d", g.state.Round, round+1)
	}
	for i, p := range g.state.Players {
		if len(p.Cards) != cardsPerDeal {
			t.Errorf("player %d cards = %d after new deal, want %d", i, len(p.Cards), cardsPerDeal)
		}
	}
}

func TestViewMasksOtherHands(t *testing.T) {
	g := New(games.Options{Seed: 1})

	view, err := g.View(2)
	if err != nil {
		t.Fatalf("View() error: %v", err)
	}

	state := view.(State)
	for i, p := range state.Players {
		if i == 2 {
			if len(p.Cards) != cardsPerDeal {
				t.Errorf("own hand masked: %d cards", len(p.Cards))
			}
		} else if len(p.Cards) != 0 {
			t.Errorf("player %d hand visible in view", i)
		}
	}
	if state.DrawPile != nil {
		t.Error("draw pile visible in view")
	}

	// Masking must not touch the real state.
	for i, p := range g.state.Players {
		if len(p.Cards) != cardsPerDeal {
			t.Errorf("masking mutated player %d hand", i)
		}
	}
}
