package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
)

type CreateParams struct {
	Name                 string
	PlayerName           string
	HasPassword          bool
	Password             string
	MaxPlayers           int
	TargetScore          int
	RoundDurationSeconds int
}

// NewRoom builds a room in Waiting with the creator seated as judge and
// freshly shuffled queues drawn from decks.
func NewRoom(id string, p CreateParams, decks []deck.Deck) (Room, error) {
	creator := normalizeName(p.PlayerName)
	if creator == "" {
		return Room{}, fmt.Errorf("%w: player name is required", ErrValidation)
	}

	if p.MaxPlayers == 0 {
		p.MaxPlayers = DefaultMaxPlayers
	}
	if p.MaxPlayers < MinPlayers || p.MaxPlayers > MaxPlayersLimit {
		return Room{}, fmt.Errorf("%w: max players must be between %d and %d, got %d",
			ErrValidation, MinPlayers, MaxPlayersLimit, p.MaxPlayers)
	}

	if p.TargetScore == 0 {
		p.TargetScore = DefaultTargetScore
	}
	if p.TargetScore < 0 {
		return Room{}, fmt.Errorf("%w: target score must be positive", ErrValidation)
	}
	if p.RoundDurationSeconds < 0 {
		return Room{}, fmt.Errorf("%w: round duration cannot be negative", ErrValidation)
	}

	var hash string
	if p.HasPassword {
		if strings.TrimSpace(p.Password) == "" {
			return Room{}, fmt.Errorf("%w: a protected room needs a password", ErrValidation)
		}
		var err error
		if hash, err = hashPassword(p.Password); err != nil {
			return Room{}, fmt.Errorf("hash room password: %w", err)
		}
	}

	name := normalizeName(p.Name)
	if name == "" {
		name = creator + "'s room"
	}

	q := deck.BuildPlayQueues(decks)
	ids := make([]string, 0, len(decks))
	for _, d := range decks {
		ids = append(ids, d.ID)
	}

	return Room{
		ID:                   id,
		Name:                 name,
		Players:              []Player{{ID: newPlayerID(), Name: creator, IsJudge: true}},
		ResponseQueue:        q.Responses,
		PromptQueue:          q.Prompts,
		TargetScore:          p.TargetScore,
		Status:               StatusWaiting,
		CreatedAt:            now().UTC().Round(0),
		HasPassword:          p.HasPassword,
		Password:             hash,
		MaxPlayers:           p.MaxPlayers,
		RoundDurationSeconds: p.RoundDurationSeconds,
		DeckIDs:              ids,
	}, nil
}

// Clone deep-copies every slice and pointer in the room.
func (r Room) Clone() Room {
	r.Players = slices.Clone(r.Players)
	for k := range r.Players {
		r.Players[k].Hand = slices.Clone(r.Players[k].Hand)
	}
	r.PlayedCards = slices.Clone(r.PlayedCards)
	r.ResponseQueue = slices.Clone(r.ResponseQueue)
	r.PromptQueue = slices.Clone(r.PromptQueue)
	r.DeckIDs = slices.Clone(r.DeckIDs)
	if r.CurrentPrompt != nil {
		c := *r.CurrentPrompt
		r.CurrentPrompt = &c
	}
	if r.Winner != nil {
		w := *r.Winner
		w.Hand = slices.Clone(w.Hand)
		r.Winner = &w
	}
	return r
}

func (r Room) Judge() (Player, bool) {
	if r.CurrentJudgeIndex < 0 || r.CurrentJudgeIndex >= len(r.Players) {
		return Player{}, false
	}
	p := r.Players[r.CurrentJudgeIndex]
	return p, p.IsJudge
}

func (r Room) PlayerByID(id string) (Player, bool) {
	if i := r.playerIndex(id); i >= 0 {
		return r.Players[i], true
	}
	return Player{}, false
}

// PlayerByName finds a seat the way JoinRoom matches reconnects.
func (r Room) PlayerByName(name string) (Player, bool) {
	if i := r.playerIndexByName(normalizeName(name)); i >= 0 {
		return r.Players[i], true
	}
	return Player{}, false
}

func (r Room) HasPlayed(playerID string) bool {
	return slices.ContainsFunc(r.PlayedCards, playedBy(playerID))
}

// Pending lists the non-judge players still owing a card this round. A
// player with an empty hand owes nothing.
func (r Room) Pending() []Player {
	if r.Status != StatusPlaying {
		return nil
	}
	var out []Player
	for _, p := range r.Players {
		if !p.IsJudge && len(p.Hand) > 0 && !r.HasPlayed(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (r Room) playerIndex(id string) int {
	return slices.IndexFunc(r.Players, func(p Player) bool { return p.ID == id })
}

func (r Room) playerIndexByName(name string) int {
	return slices.IndexFunc(r.Players, func(p Player) bool { return p.Name == name })
}
