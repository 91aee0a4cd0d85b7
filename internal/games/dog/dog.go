package dog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/danielawaser/devops-project/internal/games"
)

const cardsPerDeal = 6

type Marble struct {
	Pos int `json:"pos"`

	// IsSave marks a marble that left the kennel and has not been
	// passed or sent home since; it blocks its own start cell.
	IsSave bool `json:"is_save"`
}

type PlayerState struct {
	Name    string    `json:"name"`
	Cards   []Card    `json:"list_card"`
	Marbles []*Marble `json:"list_marble"`
}

type Action struct {
	Card     Card  `json:"card"`
	PosFrom  *int  `json:"pos_from"`
	PosTo    *int  `json:"pos_to"`
	CardSwap *Card `json:"card_swap,omitempty"`
}

type State struct {
	Phase         games.Phase    `json:"phase"`
	Round         int            `json:"cnt_round"`
	CardExchanged bool           `json:"bool_card_exchanged"`
	StartedPlayer int            `json:"idx_player_started"`
	ActivePlayer  int            `json:"idx_player_active"`
	Players       []*PlayerState `json:"list_player"`
	DrawPile      []Card         `json:"list_card_draw"`
	DiscardPile   []Card         `json:"list_card_discard"`

	// ActiveCard is set while a seven is being split into single steps.
	ActiveCard *Card `json:"card_active"`

	// SevenSteps is the number of single steps remaining for the
	// active seven.
	SevenSteps int `json:"seven_steps_remaining,omitempty"`
}

type Game struct {
	state State
	rand  *rand.Rand
}

func init() {
	games.Register(games.TypeDog, func(opts games.Options) (games.Engine, error) {
		return New(opts), nil
	})
}

func New(opts games.Options) *Game {

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	players := make([]*PlayerState, playerCount)
	for i := range players {
		marbles := make([]*Marble, marblesPerPlayer)
		for j, pos := range kennelPositions(i) {
			marbles[j] = &Marble{Pos: pos}
		}
		players[i] = &PlayerState{
			Name:    fmt.Sprintf("Player %d", i+1),
			Cards:   []Card{},
			Marbles: marbles,
		}
	}

	g := &Game{
		state: State{
			Phase:       games.PhaseRunning,
			Round:       1,
			Players:     players,
			DrawPile:    shuffle(rng, newDeck()),
			DiscardPile: []Card{},
		},
		rand: rng,
	}
	g.DealCards()

	return g
}

func (g *Game) Type() string       { return games.TypeDog }
func (g *Game) Phase() games.Phase { return g.state.Phase }
func (g *Game) PlayerCount() int   { return playerCount }
func (g *Game) ActivePlayer() int  { return g.state.ActivePlayer }

func (g *Game) State() any { return g.state }

// View hides the other players' hands; only card counts remain visible
// through the slice length.
func (g *Game) View(player int) (any, error) {

	if player < 0 || player >= playerCount {
		return nil, fmt.Errorf("invalid player index: %d", player)
	}

	view := g.state
	view.Players = make([]*PlayerState, playerCount)
	view.DrawPile = nil

	for i, p := range g.state.Players {
		cp := *p
		if i != player {
			cp.Cards = []Card{}
		}
		view.Players[i] = &cp
	}

	return view, nil
}

// DealCards gives each player a fresh hand from the draw pile,
// reshuffling the discard pile when the draw pile runs short.
func (g *Game) DealCards() {
	for _, p := range g.state.Players {
		if len(g.state.DrawPile) < cardsPerDeal {
			g.ReshuffleDiscardPile()
		}
		n := min(cardsPerDeal, len(g.state.DrawPile))
		p.Cards = append([]Card{}, g.state.DrawPile[:n]...)
		g.state.DrawPile = g.state.DrawPile[n:]
	}
}

// ReshuffleDiscardPile moves the discard pile back into the draw pile.
func (g *Game) ReshuffleDiscardPile() {
	g.state.DrawPile = append(g.state.DrawPile, shuffle(g.rand, g.state.DiscardPile)...)
	g.state.DiscardPile = []Card{}
}

func (g *Game) Actions() []any {
	var actions []any
	for _, a := range g.legalActions() {
		actions = append(actions, a)
	}
	return actions
}

func (g *Game) legalActions() []Action {

	if g.state.Phase != games.PhaseRunning {
		return nil
	}

	player := g.state.Players[g.state.ActivePlayer]

	// A started seven locks the turn to single steps of that card.
	if g.state.ActiveCard != nil && g.state.ActiveCard.Rank == RankSeven {
		return g.actionsForActiveSeven(*g.state.ActiveCard, player)
	}

	var actions []Action
	for _, card := range player.Cards {
		actions = append(actions, g.ActionsForCard(card, player)...)
	}
	return actions
}

// ActionsForCard enumerates the legal actions one card offers the given
// player.
func (g *Game) ActionsForCard(card Card, player *PlayerState) []Action {

	idx := g.playerIndex(player)
	if idx < 0 {
		return nil
	}

	if card.Rank == RankJoker {
		var actions []Action
		for rank := range moveDistances {
			proxy := Card{Suit: card.Suit, Rank: rank}
			for _, a := range g.ActionsForCard(proxy, player) {
				a.Card = card
				a.CardSwap = &proxy
				actions = append(actions, a)
			}
		}
		return actions
	}

	var actions []Action

	if isStartRank(card.Rank) {
		actions = append(actions, g.startActions(card, idx, player)...)
	}

	switch card.Rank {
	case RankJack:
		actions = append(actions, g.swapActions(card, idx, player)...)
	case RankSeven:
		actions = append(actions, g.sevenStepActions(card, idx, player, 7)...)
	default:
		for _, dist := range moveDistances[card.Rank] {
			actions = append(actions, g.moveActions(card, idx, player, dist)...)
		}
		if card.Rank == RankFour {
			actions = append(actions, g.moveActions(card, idx, player, -4)...)
		}
	}

	return actions
}

// actionsForActiveSeven lists the remaining single-step moves while a
// seven is in play.
func (g *Game) actionsForActiveSeven(card Card, player *PlayerState) []Action {
	idx := g.playerIndex(player)
	return g.sevenStepActions(card, idx, player, g.state.SevenSteps)
}

func (g *Game) startActions(card Card, idx int, player *PlayerState) []Action {

	start := startPosition(idx)

	// Own save marble on the start cell blocks leaving the kennel.
	if p, m := g.marbleAt(start); m != nil && p == idx && m.IsSave {
		return nil
	}

	var actions []Action
	for _, m := range player.Marbles {
		if isKennelPosition(m.Pos) {
			from, to := m.Pos, start
			actions = append(actions, Action{Card: card, PosFrom: &from, PosTo: &to})
			break
		}
	}
	return actions
}

func (g *Game) moveActions(card Card, idx int, player *PlayerState, dist int) []Action {

	var actions []Action
	for _, m := range player.Marbles {
		if !isTrackPosition(m.Pos) && !isFinishPosition(m.Pos) {
			continue
		}
		to, err := g.destination(idx, m, dist)
		if err != nil {
			continue
		}
		if g.blocked(idx, to) {
			continue
		}
		from := m.Pos
		dest := to
		actions = append(actions, Action{Card: card, PosFrom: &from, PosTo: &dest})
	}
	return actions
}

func (g *Game) sevenStepActions(card Card, idx int, player *PlayerState, maxSteps int) []Action {

	var actions []Action
	for _, m := range player.Marbles {
		if !isTrackPosition(m.Pos) {
			continue
		}
		for steps := 1; steps <= maxSteps; steps++ {
			to, err := g.destination(idx, m, steps)
			if err != nil {
				continue
			}
			if g.blocked(idx, to) {
				continue
			}
			from := m.Pos
			dest := to
			actions = append(actions, Action{Card: card, PosFrom: &from, PosTo: &dest})
		}
	}
	return actions
}

func (g *Game) swapActions(card Card, idx int, player *PlayerState) []Action {

	var actions []Action
	for _, own := range player.Marbles {
		if !isTrackPosition(own.Pos) {
			continue
		}
		for other, p := range g.state.Players {
			if other == idx {
				continue
			}
			for _, m := range p.Marbles {
				if !isTrackPosition(m.Pos) || g.IsProtectedMarble(m) {
					continue
				}
				from := own.Pos
				to := m.Pos
				actions = append(actions, Action{Card: card, PosFrom: &from, PosTo: &to})
			}
		}
	}
	return actions
}

// destination computes where a marble lands after dist steps, entering
// the finish area when a full lap is complete. A negative dist moves
// backwards on the track only.
func (g *Game) destination(idx int, m *Marble, dist int) (int, error) {

	if isFinishPosition(m.Pos) {
		// Moves within the finish area walk towards its end.
		cells := finishPositions(idx)
		offset := m.Pos - cells[0]
		if dist < 0 || offset+dist >= marblesPerPlayer {
			return 0, errors.New("move exceeds finish area")
		}
		return m.Pos + dist, nil
	}

	if !isTrackPosition(m.Pos) {
		return 0, errors.New("marble is not on the track")
	}

	if dist < 0 {
		return (m.Pos + dist + CircularPathLength) % CircularPathLength, nil
	}

	start := startPosition(idx)

	// A save marble has not completed its lap yet and cannot enter the
	// finish area.
	toStart := trackDistance(m.Pos, start)
	if !m.IsSave && toStart != 0 && dist >= toStart {
		finishIdx := dist - toStart
		if finishIdx < marblesPerPlayer {
			return finishPositions(idx)[finishIdx], nil
		}
		return 0, errors.New("move overshoots finish area")
	}

	return (m.Pos + dist) % CircularPathLength, nil
}

// blocked reports whether the destination holds a marble that cannot be
// sent home.
func (g *Game) blocked(idx int, to int) bool {

	_, m := g.marbleAt(to)
	if m == nil {
		return false
	}
	return isFinishPosition(to) || g.IsProtectedMarble(m)
}

func (g *Game) Apply(raw json.RawMessage) error {

	var action Action
	if err := json.Unmarshal(raw, &action); err != nil {
		return fmt.Errorf("failed to decode action: %w", err)
	}
	return g.ApplyAction(&action)
}

func (g *Game) ApplyAction(action *Action) error {

	if action == nil {
		return errors.New("no action provided")
	}
	if g.state.Phase != games.PhaseRunning {
		return errors.New("game is not running")
	}

	player := g.state.Players[g.state.ActivePlayer]

	// A started seven locks the turn to its remaining single steps.
	if g.state.ActiveCard != nil && g.state.ActiveCard.Rank == RankSeven {
		if action.Card.Rank != RankSeven {
			return fmt.Errorf("a seven is in play with %d steps remaining", g.state.SevenSteps)
		}
		return g.applySevenStep(action, player)
	}

	var err error

	switch {
	case action.Card.Rank == RankJack:
		err = g.applySwap(action)
	case action.Card.Rank == RankSeven:
		return g.applySevenStep(action, player)
	default:
		err = g.applyMove(action)
	}

	if err != nil {
		return err
	}

	g.discard(player, action.Card)
	g.finishTurn()
	return nil
}

func (g *Game) applyMove(action *Action) error {

	if action.PosFrom == nil || action.PosTo == nil {
		return errors.New("move requires from and to positions")
	}

	idx := g.state.ActivePlayer
	marble := g.ownMarbleAt(idx, *action.PosFrom)
	if marble == nil {
		return fmt.Errorf("no own marble at position %d", *action.PosFrom)
	}

	// Leaving the kennel is only legal with a start card landing on the
	// start cell.
	if isKennelPosition(marble.Pos) {
		if !isStartRank(action.Card.Rank) && action.Card.Rank != RankJoker {
			return fmt.Errorf("card %s cannot move a marble out of the kennel", action.Card.Rank)
		}
		if *action.PosTo != startPosition(idx) {
			return fmt.Errorf("marbles leave the kennel onto position %d", startPosition(idx))
		}
		if err := g.OvertakeMarble(*action.PosTo); err != nil {
			return err
		}
		marble.Pos = *action.PosTo
		marble.IsSave = true
		return nil
	}

	if !isTrackPosition(marble.Pos) && !isFinishPosition(marble.Pos) {
		return fmt.Errorf("marble at position %d cannot move", marble.Pos)
	}

	if !g.moveMatchesCard(action.Card.Rank, idx, marble, *action.PosTo) {
		return fmt.Errorf("card %s cannot move from %d to %d",
			action.Card.Rank, *action.PosFrom, *action.PosTo)
	}

	if isTrackPosition(*action.PosTo) {
		if err := g.OvertakeMarble(*action.PosTo); err != nil {
			return err
		}
	}

	marble.Pos = *action.PosTo
	marble.IsSave = false
	return nil
}

// moveMatchesCard reports whether the destination is reachable from the
// marble with one of the card's distances. A joker matches any rank.
func (g *Game) moveMatchesCard(rank string, idx int, m *Marble, to int) bool {

	if rank == RankJoker {
		for r := range moveDistances {
			if g.moveMatchesCard(r, idx, m, to) {
				return true
			}
		}
		return false
	}

	dists := moveDistances[rank]
	if rank == RankFour {
		dists = []int{4, -4}
	}

	for _, dist := range dists {
		if dest, err := g.destination(idx, m, dist); err == nil && dest == to {
			return true
		}
	}
	return false
}

func (g *Game) applySevenStep(action *Action, player *PlayerState) error {

	if action.PosFrom == nil || action.PosTo == nil {
		return errors.New("seven steps require from and to positions")
	}

	idx := g.state.ActivePlayer
	marble := g.ownMarbleAt(idx, *action.PosFrom)
	if marble == nil {
		return fmt.Errorf("no own marble at position %d", *action.PosFrom)
	}
	if !isTrackPosition(marble.Pos) {
		return errors.New("seven moves marbles on the track")
	}

	remaining := g.state.SevenSteps
	if g.state.ActiveCard == nil {
		remaining = 7
	}

	steps := trackDistance(*action.PosFrom, *action.PosTo)
	if isFinishPosition(*action.PosTo) {
		steps = trackDistance(*action.PosFrom, startPosition(idx)) +
			*action.PosTo - finishPositions(idx)[0]
	}
	if steps < 1 || steps > remaining {
		return fmt.Errorf("seven has %d steps remaining, move needs %d", remaining, steps)
	}

	if isTrackPosition(*action.PosTo) {
		if err := g.OvertakeMarble(*action.PosTo); err != nil {
			return err
		}
	}

	// The first landed step commits the card: it leaves the hand right
	// away, so abandoning the split later forfeits the unused steps.
	if g.state.ActiveCard == nil {
		card := action.Card
		g.state.ActiveCard = &card
		g.state.SevenSteps = 7
		g.discard(player, card)
	}

	marble.Pos = *action.PosTo
	marble.IsSave = false
	g.state.SevenSteps -= steps

	if g.state.SevenSteps == 0 {
		g.finishTurn()
	}

	return nil
}

func (g *Game) applySwap(action *Action) error {

	if action.PosFrom == nil || action.PosTo == nil {
		return errors.New("swap requires two positions")
	}

	idx := g.state.ActivePlayer
	own := g.ownMarbleAt(idx, *action.PosFrom)
	if own == nil {
		return fmt.Errorf("no own marble at position %d", *action.PosFrom)
	}

	_, other := g.marbleAt(*action.PosTo)
	if other == nil {
		return fmt.Errorf("no marble at position %d to swap with", *action.PosTo)
	}
	if g.IsProtectedMarble(other) {
		return errors.New("cannot swap with a protected marble")
	}

	own.Pos, other.Pos = other.Pos, own.Pos
	own.IsSave = false
	other.IsSave = false
	return nil
}

// ApplySimpleMove moves a marble on the track without card validation.
// It is the primitive behind track movement and rejects marbles that are
// not movable.
func (g *Game) ApplySimpleMove(m *Marble, to int) error {

	if isKennelPosition(m.Pos) {
		return errors.New("marble in kennel cannot move")
	}
	if isFinishPosition(m.Pos) {
		return errors.New("marble in finish area cannot move")
	}
	if !isTrackPosition(to) && !isFinishPosition(to) {
		return fmt.Errorf("invalid destination position %d", to)
	}
	if !isTrackPosition(m.Pos) {
		return fmt.Errorf("invalid marble position %d", m.Pos)
	}

	if isTrackPosition(to) {
		if err := g.OvertakeMarble(to); err != nil {
			return err
		}
	}
	m.Pos = to
	m.IsSave = false
	return nil
}

// MoveToFinish advances a marble that completes its lap into the finish
// area.
func (g *Game) MoveToFinish(m *Marble, player int, steps int) error {

	to, err := g.destination(player, m, steps)
	if err != nil {
		return err
	}
	if !isFinishPosition(to) {
		return fmt.Errorf("move of %d steps does not reach the finish area", steps)
	}
	m.Pos = to
	m.IsSave = false
	return nil
}

// SendHome returns the marble at the given position to its kennel.
// Marbles in the finish area stay where they are.
func (g *Game) SendHome(pos int) {

	p, m := g.marbleAt(pos)
	if m == nil || isFinishPosition(pos) {
		return
	}

	for _, cell := range kennelPositions(p) {
		if _, occupant := g.marbleAt(cell); occupant == nil {
			m.Pos = cell
			m.IsSave = false
			return
		}
	}
}

// OvertakeMarble clears the given track cell by sending its occupant
// home. Overtaking a protected marble is an error.
func (g *Game) OvertakeMarble(pos int) error {

	_, m := g.marbleAt(pos)
	if m == nil {
		return nil
	}
	if g.IsProtectedMarble(m) {
		return errors.New("cannot overtake a protected marble")
	}
	g.SendHome(pos)
	return nil
}

// IsProtectedMarble reports whether the marble sits on its owner's start
// cell with its save flag set.
func (g *Game) IsProtectedMarble(m *Marble) bool {

	if !m.IsSave || !isTrackPosition(m.Pos) {
		return false
	}
	for idx, p := range g.state.Players {
		for _, own := range p.Marbles {
			if own == m {
				return m.Pos == startPosition(idx)
			}
		}
	}
	return false
}

// IsInFinishArea reports whether the marble occupies one of the given
// player's finish cells.
func (g *Game) IsInFinishArea(m *Marble, player int) bool {
	return isFinishPosition(m.Pos) && finishOwner(m.Pos) == player
}

// IsGameFinished reports whether any player has brought all marbles to
// the finish area.
func (g *Game) IsGameFinished() bool {
	return g.Winner() >= 0
}

// Winner returns the index of the first player with all marbles in the
// finish area, or -1.
func (g *Game) Winner() int {
	for idx, p := range g.state.Players {
		done := len(p.Marbles) > 0
		for _, m := range p.Marbles {
			if !g.IsInFinishArea(m, idx) {
				done = false
			}
		}
		if done {
			return idx
		}
	}
	return -1
}

// ProceedToNextPlayer rotates the turn, dealing fresh hands when every
// hand is empty.
func (g *Game) ProceedToNextPlayer() {

	g.state.ActivePlayer = (g.state.ActivePlayer + 1) % playerCount

	empty := true
	for _, p := range g.state.Players {
		if len(p.Cards) > 0 {
			empty = false
		}
	}
	if empty {
		g.state.Round++
		g.state.StartedPlayer = (g.state.StartedPlayer + 1) % playerCount
		g.state.ActivePlayer = g.state.StartedPlayer
		g.state.CardExchanged = false
		g.DealCards()
	}
}

func (g *Game) Advance() (any, error) {

	actions := g.legalActions()
	if len(actions) == 0 {
		// No playable card: fold the hand and pass the turn. A seven
		// blocked mid-split is forfeited; the card itself was already
		// discarded on its first step.
		player := g.state.Players[g.state.ActivePlayer]
		g.state.ActiveCard = nil
		g.state.SevenSteps = 0
		g.state.DiscardPile = append(g.state.DiscardPile, player.Cards...)
		player.Cards = []Card{}
		g.ProceedToNextPlayer()
		return nil, nil
	}

	action := actions[g.rand.Intn(len(actions))]
	if err := g.ApplyAction(&action); err != nil {
		return nil, err
	}
	return action, nil
}

func (g *Game) finishTurn() {
	g.state.ActiveCard = nil
	g.state.SevenSteps = 0

	if g.IsGameFinished() {
		g.state.Phase = games.PhaseFinished
		return
	}
	g.ProceedToNextPlayer()
}

func (g *Game) discard(player *PlayerState, card Card) {
	for i, c := range player.Cards {
		if c == card {
			player.Cards = append(player.Cards[:i], player.Cards[i+1:]...)
			break
		}
	}
	g.state.DiscardPile = append(g.state.DiscardPile, card)
}

func (g *Game) playerIndex(player *PlayerState) int {
	for i, p := range g.state.Players {
		if p == player {
			return i
		}
	}
	return -1
}

func (g *Game) marbleAt(pos int) (int, *Marble) {
	for idx, p := range g.state.Players {
		for _, m := range p.Marbles {
			if m.Pos == pos {
				return idx, m
			}
		}
	}
	return -1, nil
}

func (g *Game) ownMarbleAt(idx int, pos int) *Marble {
	for _, m := range g.state.Players[idx].Marbles {
		if m.Pos == pos {
			return m
		}
	}
	return nil
}
