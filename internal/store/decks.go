package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
)

type DeckRecord struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"size:255;not null"`
	Description string
	IsDefault   bool
	Cards       []CardRecord `gorm:"foreignKey:DeckID"`
	CreatedAt   time.Time
}

func (DeckRecord) TableName() string { return "decks" }

type CardRecord struct {
	ID       string `gorm:"primaryKey;size:64"`
	DeckID   string `gorm:"index;size:64;not null"`
	Kind     string `gorm:"size:16;not null"`
	Text     string `gorm:"not null"`
	Position int
}

func (CardRecord) TableName() string { return "cards" }

func toDeckRecord(d deck.Deck) DeckRecord {
	rec := DeckRecord{ID: d.ID, Name: d.Name, Description: d.Description, IsDefault: d.IsDefault}
	for i, c := range d.PromptCards {
		rec.Cards = append(rec.Cards, CardRecord{ID: c.ID, DeckID: d.ID, Kind: string(deck.KindPrompt), Text: c.Text, Position: i})
	}
	for i, c := range d.ResponseCards {
		rec.Cards = append(rec.Cards, CardRecord{ID: c.ID, DeckID: d.ID, Kind: string(deck.KindResponse), Text: c.Text, Position: i})
	}
	return rec
}

func fromDeckRecord(rec DeckRecord) deck.Deck {
	d := deck.Deck{ID: rec.ID, Name: rec.Name, Description: rec.Description, IsDefault: rec.IsDefault}
	for _, c := range rec.Cards {
		card := deck.Card{ID: c.ID, Text: c.Text, DeckID: rec.ID, Kind: deck.Kind(c.Kind)}
		switch card.Kind {
		case deck.KindPrompt:
			d.PromptCards = append(d.PromptCards, card)
		case deck.KindResponse:
			d.ResponseCards = append(d.ResponseCards, card)
		}
	}
	return d
}

func (s *Store) ListDecks(ctx context.Context) ([]deck.Deck, error) {
	var recs []DeckRecord
	err := s.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB { return db.Order("kind, position") }).
		Order("created_at, id").
		Find(&recs).Error
	if err != nil {
		return nil, translate(err)
	}

	decks := make([]deck.Deck, 0, len(recs))
	for _, rec := range recs {
		decks = append(decks, fromDeckRecord(rec))
	}
	return decks, nil
}

// SaveDeck creates a deck together with its cards.
func (s *Store) SaveDeck(ctx context.Context, d deck.Deck) error {
	rec := toDeckRecord(d)
	return translate(s.db.WithContext(ctx).Create(&rec).Error)
}

func (s *Store) DeleteDeck(ctx context.Context, deckID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&CardRecord{}).Error; err != nil {
			return translate(err)
		}
		res := tx.Delete(&DeckRecord{}, "id = ?", deckID)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddCard appends card to the end of its kind's list in deckID.
func (s *Store) AddCard(ctx context.Context, deckID string, card deck.Card) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d DeckRecord
		if err := tx.First(&d, "id = ?", deckID).Error; err != nil {
			return translate(err)
		}

		// Append after the current tail; removals leave gaps, not duplicates.
		var next int
		err := tx.Model(&CardRecord{}).
			Where("deck_id = ? AND kind = ?", deckID, string(card.Kind)).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error
		if err != nil {
			return translate(err)
		}

		rec := CardRecord{ID: card.ID, DeckID: deckID, Kind: string(card.Kind), Text: card.Text, Position: next}
		return translate(tx.Create(&rec).Error)
	})
}

func (s *Store) RemoveCard(ctx context.Context, deckID, cardID string) error {
	res := s.db.WithContext(ctx).Delete(&CardRecord{}, "id = ? AND deck_id = ?", cardID, deckID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedDecks stores decks when the catalog is empty. It reports whether it
// wrote anything.
func (s *Store) SeedDecks(ctx context.Context, decks []deck.Deck) (bool, error) {
	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&DeckRecord{}).Count(&n).Error; err != nil {
			return translate(err)
		}
		if n > 0 {
			return nil
		}
		for _, d := range decks {
			rec := toDeckRecord(d)
			if err := tx.Create(&rec).Error; err != nil {
				return translate(err)
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}
