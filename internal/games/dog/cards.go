package dog

import "math/rand"

type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

const (
	RankJack  = "J"
	RankQueen = "Q"
	RankKing  = "K"
	RankAce   = "A"
	RankJoker = "JKR"
	RankSeven = "7"
	RankFour  = "4"
)

var suits = []string{"♠", "♥", "♦", "♣"}

var ranks = []string{
	"2", "3", "4", "5", "6", "7", "8", "9", "10",
	RankJack, RankQueen, RankKing, RankAce,
}

// moveDistances lists the forward distances a rank allows. Four can also
// move backwards and seven is split into single steps; both are handled
// separately by the action generator.
var moveDistances = map[string][]int{
	"2":       {2},
	"3":       {3},
	RankFour:  {4},
	"5":       {5},
	"6":       {6},
	RankSeven: {7},
	"8":       {8},
	"9":       {9},
	"10":      {10},
	RankQueen: {12},
	RankKing:  {13},
	RankAce:   {1, 11},
}

// newDeck returns the full 110 card deck: two copies of 52 cards plus
// six jokers.
func newDeck() []Card {
	deck := make([]Card, 0, 110)
	for copies := 0; copies < 2; copies++ {
		for _, suit := range suits {
			for _, rank := range ranks {
				deck = append(deck, Card{Suit: suit, Rank: rank})
			}
		}
		for i := 0; i < 3; i++ {
			deck = append(deck, Card{Rank: RankJoker})
		}
	}
	return deck
}

func shuffle(rng *rand.Rand, cards []Card) []Card {
	shuffled := make([]Card, len(cards))
	copy(shuffled, cards)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// isStartRank reports whether the rank lets a marble leave the kennel.
func isStartRank(rank string) bool {
	return rank == RankAce || rank == RankKing
}
