package game

import (
	"math/rand"
)

// Face is the visible status of a card.
type Face int

const (
	Hidden Face = iota
	Revealed
	Matched
)

func (f Face) String() string {
	switch f {
	case Hidden:
		return "hidden"
	case Revealed:
		return "revealed"
	case Matched:
		return "matched"
	default:
		return "unknown"
	}
}

// Card is one position on the board.
type Card struct {
	Index int // board position
	Key   int // pairing key, shared by exactly two cards
	Face  Face
}

// BuildDeck returns 2*Pairs hidden cards, each key in 1..Pairs appearing
// twice, in a uniformly random order.
func BuildDeck(p Profile, rng *rand.Rand) ([]Card, error) {
	if p.Pairs < 1 {
		return nil, ErrInvalidPairs
	}

	cards := make([]Card, 0, 2*p.Pairs)
	for k := 1; k <= p.Pairs; k++ {
		cards = append(cards, Card{Key: k}, Card{Key: k})
	}

	// Fisher-Yates: swap i with a uniform index in [0, i].
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	for i := range cards {
		cards[i].Index = i
	}
	return cards, nil
}
