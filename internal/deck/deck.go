package deck

import (
	"math/rand/v2"
	"slices"
)

type Kind string

const (
	KindPrompt   Kind = "prompt"
	KindResponse Kind = "response"
)

type Card struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	DeckID string `json:"deckId"`
	Kind   Kind   `json:"kind"`
}

type Deck struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsDefault     bool   `json:"isDefault"`
	PromptCards   []Card `json:"promptCards"`
	ResponseCards []Card `json:"responseCards"`
}

// Clone returns a deep copy so callers can never write into the catalog.
func (d Deck) Clone() Deck {
	d.PromptCards = slices.Clone(d.PromptCards)
	d.ResponseCards = slices.Clone(d.ResponseCards)
	return d
}

// Queues are the per-room draw piles. Index 0 is the top of each pile.
type Queues struct {
	Prompts   []Card
	Responses []Card
}

// intN is swapped out in tests that need a deterministic permutation.
var intN = rand.IntN

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := intN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// BuildPlayQueues concatenates the cards of every selected deck and
// shuffles each pile independently.
func BuildPlayQueues(decks []Deck) Queues {
	var q Queues
	for _, d := range decks {
		q.Prompts = append(q.Prompts, d.PromptCards...)
		q.Responses = append(q.Responses, d.ResponseCards...)
	}
	Shuffle(q.Prompts)
	Shuffle(q.Responses)
	return q
}

// DealHand pops up to n cards off the front of queue. A short queue deals
// fewer cards instead of failing.
func DealHand(queue []Card, n int) (hand, rest []Card) {
	if n <= 0 {
		return nil, queue
	}
	k := min(n, len(queue))
	return slices.Clone(queue[:k]), queue[k:]
}

// Draw pops the top card, or returns nil when the queue is empty.
func Draw(queue []Card) (*Card, []Card) {
	if len(queue) == 0 {
		return nil, queue
	}
	c := queue[0]
	return &c, queue[1:]
}
