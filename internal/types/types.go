package types

import (
	"time"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/DoyleJ11/cardroom-backend/internal/engine"
)

// Client -> server message types.
const (
	MsgCreateRoom = "createRoom"
	MsgJoinRoom   = "joinRoom"
	MsgLeaveRoom  = "leaveRoom"
	MsgStartGame  = "startGame"
	MsgPlayCard   = "playCard"
	MsgJudgeCard  = "judgeCard"
)

// Server -> client message types.
const (
	EvtRoomCreated = "roomCreated"
	EvtRoomJoined  = "roomJoined"
	EvtRoomUpdated = "roomUpdated"
	EvtRoomClosed  = "roomClosed"
	EvtError       = "error"
)

type ClientMessage struct {
	Type string `json:"type"`

	RoomID   string `json:"roomId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`

	// createRoom / joinRoom
	Name                 string   `json:"name,omitempty"`
	PlayerName           string   `json:"playerName,omitempty"`
	HasPassword          bool     `json:"hasPassword,omitempty"`
	Password             string   `json:"password,omitempty"`
	MaxPlayers           int      `json:"maxPlayers,omitempty"`
	TargetScore          int      `json:"targetScore,omitempty"`
	RoundDurationSeconds int      `json:"roundDurationSeconds,omitempty"`
	DeckIDs              []string `json:"deckIds,omitempty"`

	// playCard / judgeCard
	CardID string `json:"cardId,omitempty"`
	Index  int    `json:"index,omitempty"`
}

// CreateParams pulls the createRoom fields out of m.
func (m ClientMessage) CreateParams() engine.CreateParams {
	return engine.CreateParams{
		Name:                 m.Name,
		PlayerName:           m.PlayerName,
		HasPassword:          m.HasPassword,
		Password:             m.Password,
		MaxPlayers:           m.MaxPlayers,
		TargetScore:          m.TargetScore,
		RoundDurationSeconds: m.RoundDurationSeconds,
	}
}

// Command maps a room command message onto the engine. createRoom is not
// a room command and reports false.
func (m ClientMessage) Command() (engine.Command, bool) {
	switch m.Type {
	case MsgJoinRoom:
		return engine.Command{Type: engine.CmdJoinRoom, PlayerName: m.PlayerName, Password: m.Password}, true
	case MsgLeaveRoom:
		return engine.Command{Type: engine.CmdLeaveRoom, PlayerID: m.PlayerID}, true
	case MsgStartGame:
		return engine.Command{Type: engine.CmdStartGame, PlayerID: m.PlayerID}, true
	case MsgPlayCard:
		return engine.Command{Type: engine.CmdPlayCard, PlayerID: m.PlayerID, CardID: m.CardID}, true
	case MsgJudgeCard:
		return engine.Command{Type: engine.CmdJudgeCard, PlayerID: m.PlayerID, Index: m.Index}, true
	default:
		return engine.Command{}, false
	}
}

type ServerMessage struct {
	Type     string    `json:"type"`
	Version  int       `json:"version,omitempty"`
	Room     *RoomView `json:"room,omitempty"`
	PlayerID string    `json:"playerId,omitempty"` // the receiver's own player, on roomCreated/roomJoined
	Message  string    `json:"message,omitempty"`
	Kind     string    `json:"kind,omitempty"`
}

func RoomMessage(typ string, version int, r engine.Room) ServerMessage {
	v := NewRoomView(r)
	return ServerMessage{Type: typ, Version: version, Room: &v}
}

func ErrorMessage(err error) ServerMessage {
	body := NewErrorBody(err)
	return ServerMessage{Type: EvtError, Message: body.Message, Kind: string(body.Kind)}
}

// RoomView is a room as clients see it: no password hash, and only the
// size of each draw pile.
type RoomView struct {
	ID                   string              `json:"id"`
	Name                 string              `json:"name"`
	Players              []engine.Player     `json:"players"`
	CurrentJudgeIndex    int                 `json:"currentJudgeIndex"`
	CurrentPromptCard    *deck.Card          `json:"currentPromptCard"`
	PlayedCards          []engine.PlayedCard `json:"playedCards"`
	Round                int                 `json:"round"`
	TargetScore          int                 `json:"targetScore"`
	Status               engine.Status       `json:"status"`
	CreatedAt            time.Time           `json:"createdAt"`
	Winner               *engine.Player      `json:"winner"`
	HasPassword          bool                `json:"hasPassword"`
	MaxPlayers           int                 `json:"maxPlayers"`
	RoundDurationSeconds int                 `json:"roundDurationSeconds"`
	DeckIDs              []string            `json:"deckIds"`
	PromptsLeft          int                 `json:"promptsLeft"`
	ResponsesLeft        int                 `json:"responsesLeft"`
}

func NewRoomView(r engine.Room) RoomView {
	players := r.Players
	if players == nil {
		players = []engine.Player{}
	}
	played := make([]engine.PlayedCard, 0, len(r.PlayedCards))
	for _, pc := range r.PlayedCards {
		// The judge picks blind.
		if r.Status == engine.StatusJudging {
			pc.PlayerID, pc.PlayerName = "", ""
		}
		played = append(played, pc)
	}
	return RoomView{
		ID:                   r.ID,
		Name:                 r.Name,
		Players:              players,
		CurrentJudgeIndex:    r.CurrentJudgeIndex,
		CurrentPromptCard:    r.CurrentPrompt,
		PlayedCards:          played,
		Round:                r.Round,
		TargetScore:          r.TargetScore,
		Status:               r.Status,
		CreatedAt:            r.CreatedAt,
		Winner:               r.Winner,
		HasPassword:          r.HasPassword,
		MaxPlayers:           r.MaxPlayers,
		RoundDurationSeconds: r.RoundDurationSeconds,
		DeckIDs:              r.DeckIDs,
		PromptsLeft:          len(r.PromptQueue),
		ResponsesLeft:        len(r.ResponseQueue),
	}
}

// RoomSummary is one row of the room browser.
type RoomSummary struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Players     int           `json:"players"`
	MaxPlayers  int           `json:"maxPlayers"`
	HasPassword bool          `json:"hasPassword"`
	Status      engine.Status `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func NewRoomSummary(r engine.Room) RoomSummary {
	return RoomSummary{
		ID:          r.ID,
		Name:        r.Name,
		Players:     len(r.Players),
		MaxPlayers:  r.MaxPlayers,
		HasPassword: r.HasPassword,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}

// JoinedRoom answers createRoom and joinRoom over HTTP.
type JoinedRoom struct {
	PlayerID string   `json:"playerId"`
	Version  int      `json:"version"`
	Room     RoomView `json:"room"`
}

type ErrorBody struct {
	Message string      `json:"message"`
	Kind    engine.Kind `json:"kind"`
}

// NewErrorBody hides the text of internal errors.
func NewErrorBody(err error) ErrorBody {
	kind := engine.KindOf(err)
	if kind == engine.KindInternal {
		return ErrorBody{Message: "internal server error", Kind: kind}
	}
	return ErrorBody{Message: err.Error(), Kind: kind}
}
