package engine

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// Swapped in tests.
var (
	newPlayerID   = uuid.NewString
	now           = time.Now
	shufflePlayed = deck.Shuffle[PlayedCard]
	passwordCost  = bcrypt.DefaultCost
)

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// RandomHandCard picks uniformly from the player's hand. The round timer uses
// it to play on behalf of someone who ran out of time.
func RandomHandCard(r Room, playerID string) (deck.Card, bool) {
	p, ok := r.PlayerByID(playerID)
	if !ok || len(p.Hand) == 0 {
		return deck.Card{}, false
	}
	return p.Hand[rand.IntN(len(p.Hand))], true
}

// Names compare after trimming and NFC normalization so "José" typed two
// different ways is the same seat.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), passwordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
