package deck

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrUnknownDeck = errors.New("unknown deck")
	ErrUnknownCard = errors.New("unknown card")
)

// Catalog is the process-wide deck library. Rooms only ever see copies.
type Catalog struct {
	mu    sync.RWMutex
	decks []Deck
}

func NewCatalog(decks ...Deck) *Catalog {
	c := &Catalog{}
	c.Replace(decks)
	return c
}

func (c *Catalog) Replace(decks []Deck) {
	cp := make([]Deck, 0, len(decks))
	for _, d := range decks {
		cp = append(cp, d.Clone())
	}

	c.mu.Lock()
	c.decks = cp
	c.mu.Unlock()
}

func (c *Catalog) All() []Deck {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Deck, 0, len(c.decks))
	for _, d := range c.decks {
		out = append(out, d.Clone())
	}
	return out
}

func (c *Catalog) Get(id string) (Deck, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i >= 0 {
		return c.decks[i].Clone(), true
	}
	return Deck{}, false
}

// Defaults returns the decks flagged as default, or every deck when none are.
func (c *Catalog) Defaults() []Deck {
	all := c.All()
	defaults := slices.DeleteFunc(slices.Clone(all), func(d Deck) bool { return !d.IsDefault })
	if len(defaults) == 0 {
		return all
	}
	return defaults
}

// Select resolves a room's deck choice. No ids means the defaults.
func (c *Catalog) Select(ids []string) ([]Deck, error) {
	if len(ids) == 0 {
		return c.Defaults(), nil
	}

	out := make([]Deck, 0, len(ids))
	for _, id := range ids {
		d, ok := c.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDeck, id)
		}
		out = append(out, d)
	}
	return out, nil
}

// Put inserts d, replacing any deck with the same id.
func (c *Catalog) Put(d Deck) {
	d = d.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexLocked(d.ID); i >= 0 {
		c.decks[i] = d
		return
	}
	c.decks = append(c.decks, d)
}

func (c *Catalog) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.decks = slices.Delete(c.decks, i, i+1)
	return true
}

func (c *Catalog) AddCard(deckID string, card Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(deckID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDeck, deckID)
	}

	card.DeckID = deckID
	d := c.decks[i].Clone()
	switch card.Kind {
	case KindPrompt:
		d.PromptCards = append(d.PromptCards, card)
	case KindResponse:
		d.ResponseCards = append(d.ResponseCards, card)
	default:
		return fmt.Errorf("unsupported card kind %q", card.Kind)
	}
	c.decks[i] = d
	return nil
}

func (c *Catalog) RemoveCard(deckID, cardID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(deckID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownDeck, deckID)
	}

	byID := func(card Card) bool { return card.ID == cardID }
	d := c.decks[i].Clone()
	before := len(d.PromptCards) + len(d.ResponseCards)
	d.PromptCards = slices.DeleteFunc(d.PromptCards, byID)
	d.ResponseCards = slices.DeleteFunc(d.ResponseCards, byID)
	if len(d.PromptCards)+len(d.ResponseCards) == before {
		return fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}
	c.decks[i] = d
	return nil
}

func (c *Catalog) indexLocked(id string) int {
	return slices.IndexFunc(c.decks, func(d Deck) bool { return d.ID == id })
}
