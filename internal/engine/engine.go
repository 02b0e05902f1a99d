package engine

import (
	"fmt"
	"slices"
	"time"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
)

const (
	HandSize           = 7
	MinPlayers         = 2
	MaxPlayersLimit    = 20
	DefaultMaxPlayers  = 8
	DefaultTargetScore = 8
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusJudging  Status = "judging"
	StatusFinished Status = "finished"
)

type Player struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Score   int         `json:"score"`
	IsJudge bool        `json:"isJudge"`
	Hand    []deck.Card `json:"hand"`
}

type PlayedCard struct {
	Card       deck.Card `json:"card"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
}

// Room is the full game state of one room. It doubles as the persisted
// snapshot, so every field is exported and tagged.
type Room struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Players              []Player     `json:"players"`
	CurrentJudgeIndex    int          `json:"currentJudgeIndex"`
	CurrentPrompt        *deck.Card   `json:"currentPromptCard"`
	PlayedCards          []PlayedCard `json:"playedCards"`
	ResponseQueue        []deck.Card  `json:"responseQueue"`
	PromptQueue          []deck.Card  `json:"promptQueue"`
	Round                int          `json:"round"`
	TargetScore          int          `json:"targetScore"`
	Status               Status       `json:"status"`
	CreatedAt            time.Time    `json:"createdAt"`
	Winner               *Player      `json:"winner"`
	HasPassword          bool         `json:"hasPassword"`
	Password             string       `json:"password"` // bcrypt hash
	MaxPlayers           int          `json:"maxPlayers"`
	RoundDurationSeconds int          `json:"roundDurationSeconds"`
	DeckIDs              []string     `json:"deckIds"`
}

type CommandType string

const (
	CmdJoinRoom  CommandType = "JoinRoom"
	CmdLeaveRoom CommandType = "LeaveRoom"
	CmdStartGame CommandType = "StartGame"
	CmdPlayCard  CommandType = "PlayCard"
	CmdJudgeCard CommandType = "JudgeCard"
)

type Command struct {
	Type       CommandType
	PlayerID   string
	PlayerName string
	Password   string
	CardID     string
	Index      int
	// Decks refills the queues when a finished game is restarted.
	Decks []deck.Deck
}

type EventType string

const (
	EvtPlayerJoined   EventType = "PlayerJoined"
	EvtPlayerLeft     EventType = "PlayerLeft"
	EvtRoomEmptied    EventType = "RoomEmptied"
	EvtGameStarted    EventType = "GameStarted"
	EvtGamePaused     EventType = "GamePaused"
	EvtRoundStarted   EventType = "RoundStarted"
	EvtCardPlayed     EventType = "CardPlayed"
	EvtJudgingStarted EventType = "JudgingStarted"
	EvtRoundWon       EventType = "RoundWon"
	EvtGameFinished   EventType = "GameFinished"
)

type Event struct {
	Type     EventType
	PlayerID string
	CardID   string
}

/*
	CmdJoinRoom   -> EvtPlayerJoined            (nothing on reconnect)
	CmdLeaveRoom  -> EvtPlayerLeft -> EvtRoomEmptied | EvtGamePaused | EvtJudgingStarted | EvtGameFinished
	CmdStartGame  -> EvtGameStarted -> EvtRoundStarted [-> EvtGameFinished]
	CmdPlayCard   -> EvtCardPlayed -> EvtJudgingStarted (last card of the round)
	CmdJudgeCard  -> EvtRoundWon -> EvtRoundStarted [-> EvtGameFinished] | EvtGameFinished

	Apply never writes to its input. A rejected command returns the input
	room untouched, and a command that is a no-op in the current status
	returns no events and no error.
*/

func Apply(r Room, cmd Command) ([]Event, Room, error) {
	switch cmd.Type {
	case CmdJoinRoom:
		return join(r, cmd)
	case CmdLeaveRoom:
		return leave(r, cmd)
	case CmdStartGame:
		return startGame(r, cmd)
	case CmdPlayCard:
		return playCard(r, cmd)
	case CmdJudgeCard:
		return judgeCard(r, cmd)
	default:
		return nil, r, fmt.Errorf("%w: %q", ErrUnsupportedCommand, cmd.Type)
	}
}

func join(r Room, cmd Command) ([]Event, Room, error) {
	name := normalizeName(cmd.PlayerName)
	if name == "" {
		return nil, r, fmt.Errorf("%w: player name is required", ErrValidation)
	}
	if r.HasPassword && !checkPassword(r.Password, cmd.Password) {
		return nil, r, fmt.Errorf("%w: wrong password for room %s", ErrAuth, r.ID)
	}

	// Reconnect: the seat is already taken by this name.
	if r.playerIndexByName(name) >= 0 {
		return nil, r, nil
	}
	if len(r.Players) >= r.MaxPlayers {
		return nil, r, fmt.Errorf("%w: maximum of %d players", ErrCapacity, r.MaxPlayers)
	}

	n := r.Clone()
	p := Player{ID: newPlayerID(), Name: name}
	if n.inRound() {
		p.Hand, n.ResponseQueue = deck.DealHand(n.ResponseQueue, HandSize)
	}
	n.Players = append(n.Players, p)

	return []Event{{Type: EvtPlayerJoined, PlayerID: p.ID}}, n, nil
}

func leave(r Room, cmd Command) ([]Event, Room, error) {
	i := r.playerIndex(cmd.PlayerID)
	if i < 0 {
		return nil, r, fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, cmd.PlayerID, r.ID)
	}

	n := r.Clone()
	wasJudge := n.Players[i].IsJudge
	n.Players = slices.Delete(n.Players, i, i+1)
	n.PlayedCards = slices.DeleteFunc(n.PlayedCards, playedBy(cmd.PlayerID))

	events := []Event{{Type: EvtPlayerLeft, PlayerID: cmd.PlayerID}}

	if len(n.Players) == 0 {
		n.CurrentJudgeIndex = 0
		return append(events, Event{Type: EvtRoomEmptied}), n, nil
	}

	switch {
	case wasJudge:
		assignJudge(&n, 0)
	case i < n.CurrentJudgeIndex:
		n.CurrentJudgeIndex--
	}

	if !n.inRound() {
		return events, n, nil
	}
	if len(n.Players) < MinPlayers {
		pauseGame(&n)
		return append(events, Event{Type: EvtGamePaused}), n, nil
	}
	return append(events, settleRound(&n)...), n, nil
}

func startGame(r Room, cmd Command) ([]Event, Room, error) {
	if len(r.Players) < MinPlayers {
		return nil, r, fmt.Errorf("%w: at least %d players are required", ErrPrecondition, MinPlayers)
	}
	if r.inRound() {
		return nil, r, fmt.Errorf("%w: game already in progress", ErrPrecondition)
	}

	n := r.Clone()
	if n.Status == StatusFinished && len(cmd.Decks) > 0 {
		q := deck.BuildPlayQueues(cmd.Decks)
		n.PromptQueue, n.ResponseQueue = q.Prompts, q.Responses
	}
	if len(n.PromptQueue) == 0 {
		return nil, r, fmt.Errorf("%w: no prompt cards left", ErrPrecondition)
	}

	n.Winner = nil
	n.PlayedCards = nil
	if n.CurrentJudgeIndex >= len(n.Players) {
		n.CurrentJudgeIndex = 0
	}
	for k := range n.Players {
		p := &n.Players[k]
		p.Score = 0
		p.IsJudge = k == n.CurrentJudgeIndex
		p.Hand, n.ResponseQueue = deck.DealHand(n.ResponseQueue, HandSize)
	}
	n.CurrentPrompt, n.PromptQueue = deck.Draw(n.PromptQueue)
	n.Round = 1
	n.Status = StatusPlaying

	events := []Event{{Type: EvtGameStarted}, {Type: EvtRoundStarted}}
	return append(events, settleRound(&n)...), n, nil
}

func playCard(r Room, cmd Command) ([]Event, Room, error) {
	if r.Status != StatusPlaying {
		return nil, r, nil
	}

	i := r.playerIndex(cmd.PlayerID)
	if i < 0 {
		return nil, r, fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, cmd.PlayerID, r.ID)
	}
	p := r.Players[i]
	if p.IsJudge {
		return nil, r, fmt.Errorf("%w: the judge does not play a card", ErrIllegalAction)
	}
	if r.HasPlayed(p.ID) {
		return nil, r, fmt.Errorf("%w: %s already played this round", ErrIllegalAction, p.Name)
	}
	h := slices.IndexFunc(p.Hand, func(c deck.Card) bool { return c.ID == cmd.CardID })
	if h < 0 {
		return nil, r, fmt.Errorf("%w: card %s is not in %s's hand", ErrIllegalAction, cmd.CardID, p.Name)
	}

	n := r.Clone()
	np := &n.Players[i]
	card := np.Hand[h]
	np.Hand = slices.Delete(np.Hand, h, h+1)
	n.PlayedCards = append(n.PlayedCards, PlayedCard{Card: card, PlayerID: p.ID, PlayerName: p.Name})

	events := []Event{{Type: EvtCardPlayed, PlayerID: p.ID, CardID: card.ID}}
	return append(events, settleRound(&n)...), n, nil
}

func judgeCard(r Room, cmd Command) ([]Event, Room, error) {
	if r.Status != StatusJudging {
		return nil, r, nil
	}
	if judge, ok := r.Judge(); !ok || judge.ID != cmd.PlayerID {
		return nil, r, nil
	}
	if cmd.Index < 0 || cmd.Index >= len(r.PlayedCards) {
		return nil, r, fmt.Errorf("%w: card %d of %d", ErrRange, cmd.Index, len(r.PlayedCards))
	}

	n := r.Clone()
	chosen := n.PlayedCards[cmd.Index]
	if w := n.playerIndex(chosen.PlayerID); w >= 0 {
		n.Players[w].Score++
	}
	n.PlayedCards = nil

	for k := range n.Players {
		if k == n.CurrentJudgeIndex {
			continue
		}
		p := &n.Players[k]
		var drawn []deck.Card
		drawn, n.ResponseQueue = deck.DealHand(n.ResponseQueue, HandSize-len(p.Hand))
		p.Hand = append(p.Hand, drawn...)
	}

	advanceJudge(&n)
	n.CurrentPrompt, n.PromptQueue = deck.Draw(n.PromptQueue)

	events := []Event{{Type: EvtRoundWon, PlayerID: chosen.PlayerID, CardID: chosen.Card.ID}}

	if n.reachedTarget() || n.CurrentPrompt == nil {
		finishGame(&n)
		return append(events, Event{Type: EvtGameFinished, PlayerID: n.Winner.ID}), n, nil
	}

	n.Round++
	n.Status = StatusPlaying
	events = append(events, Event{Type: EvtRoundStarted})
	return append(events, settleRound(&n)...), n, nil
}

// settleRound starts judging once no non-judge still owes a card. Players
// with an empty hand owe nothing. A round nobody can play finishes the game.
func settleRound(r *Room) []Event {
	if r.Status != StatusPlaying || len(r.Pending()) > 0 {
		return nil
	}
	if len(r.PlayedCards) == 0 {
		finishGame(r)
		return []Event{{Type: EvtGameFinished, PlayerID: r.Winner.ID}}
	}
	beginJudging(r)
	return []Event{{Type: EvtJudgingStarted}}
}

func beginJudging(r *Room) {
	shufflePlayed(r.PlayedCards)
	r.Status = StatusJudging
}

// pauseGame drops a running round back to the lobby once too few players
// remain. Played cards go back to their authors.
func pauseGame(r *Room) {
	for _, pc := range r.PlayedCards {
		if k := r.playerIndex(pc.PlayerID); k >= 0 {
			r.Players[k].Hand = append(r.Players[k].Hand, pc.Card)
		}
	}
	r.PlayedCards = nil
	r.CurrentPrompt = nil
	r.Round = 0
	r.Status = StatusWaiting
}

func finishGame(r *Room) {
	best := 0
	for k, p := range r.Players {
		if p.Score > r.Players[best].Score {
			best = k
		}
	}
	w := r.Players[best]
	w.Hand = slices.Clone(w.Hand)
	r.Winner = &w
	r.Status = StatusFinished
}

func (r Room) reachedTarget() bool {
	return slices.ContainsFunc(r.Players, func(p Player) bool { return p.Score >= r.TargetScore })
}

func (r Room) inRound() bool {
	return r.Status == StatusPlaying || r.Status == StatusJudging
}

func playedBy(playerID string) func(PlayedCard) bool {
	return func(pc PlayedCard) bool { return pc.PlayerID == playerID }
}
