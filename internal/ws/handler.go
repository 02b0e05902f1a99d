package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/engine"
	"github.com/DoyleJ11/cardroom-backend/internal/hub"
	"github.com/DoyleJ11/cardroom-backend/internal/lobby"
	"github.com/DoyleJ11/cardroom-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	pingInterval = 30 * time.Second
	outboxSize   = 16
)

type Options struct {
	Logger *zap.Logger
	// OriginPatterns is passed to websocket.Accept. Empty means same
	// origin only.
	OriginPatterns []string
}

// Handler serves one websocket per client. A connection follows at most
// one room at a time: the one it last created or joined, or the room
// named by the optional ?roomId= query.
func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var initial *lobby.Lobby
		if roomID := r.URL.Query().Get("roomId"); roomID != "" {
			lb, err := h.Lookup(r.Context(), roomID)
			if err != nil {
				http.Error(w, "room not found", http.StatusNotFound)
				return
			}
			initial = lb
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("websocket accept", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		s := &session{
			id:   uuid.NewString(),
			conn: conn,
			hub:  h,
			log:  log,
			ctx:  ctx,
		}
		s.log = log.With(zap.String("client", s.id))
		defer s.unsubscribe()

		if initial != nil {
			s.subscribe(initial)
		}

		go s.keepAlive()
		s.readLoop()
	}
}

type session struct {
	id   string
	conn *websocket.Conn
	hub  *hub.Hub
	log  *zap.Logger
	ctx  context.Context

	// only touched by the read loop
	room *lobby.Lobby
}

func (s *session) readLoop() {
	for {
		_, data, err := s.conn.Read(s.ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !errors.Is(err, context.Canceled) {
					s.log.Debug("websocket read", zap.Error(err))
				}
			}
			return
		}

		var cm types.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			s.write(types.ErrorMessage(badRequest("bad json")))
			continue
		}
		s.handle(cm)
	}
}

func (s *session) handle(m types.ClientMessage) {
	if m.Type == types.MsgCreateRoom {
		s.createRoom(m)
		return
	}

	cmd, ok := m.Command()
	if !ok {
		s.write(types.ErrorMessage(badRequest("unknown message type " + m.Type)))
		return
	}

	roomID := m.RoomID
	if roomID == "" && s.room != nil {
		roomID = s.room.ID()
	}
	if roomID == "" {
		s.write(types.ErrorMessage(badRequest("roomId is required")))
		return
	}

	res, err := s.hub.Dispatch(s.ctx, roomID, cmd)
	if err != nil {
		s.write(types.ErrorMessage(err))
		return
	}

	switch cmd.Type {
	case engine.CmdJoinRoom:
		p, _ := res.Room.PlayerByName(cmd.PlayerName)
		msg := types.RoomMessage(types.EvtRoomJoined, res.Version, res.Room)
		msg.PlayerID = p.ID
		s.write(msg)
		s.follow(roomID)
	case engine.CmdLeaveRoom:
		if s.room != nil && s.room.ID() == roomID {
			s.unsubscribe()
		}
	}
}

func (s *session) createRoom(m types.ClientMessage) {
	room, err := s.hub.CreateRoom(s.ctx, m.CreateParams(), m.DeckIDs)
	if err != nil {
		s.write(types.ErrorMessage(err))
		return
	}

	msg := types.RoomMessage(types.EvtRoomCreated, 0, room)
	msg.PlayerID = room.Players[0].ID
	s.write(msg)
	s.follow(room.ID)
}

func (s *session) follow(roomID string) {
	if s.room != nil && s.room.ID() == roomID {
		return
	}
	lb, err := s.hub.Lookup(s.ctx, roomID)
	if err != nil {
		// The room closed between the command and now.
		s.write(types.ServerMessage{Type: types.EvtRoomClosed, Message: lobby.ReasonEmpty})
		return
	}
	s.subscribe(lb)
}

func (s *session) subscribe(lb *lobby.Lobby) {
	s.unsubscribe()

	out := make(chan lobby.Snapshot, outboxSize)
	if err := lb.Subscribe(s.ctx, s.id, out); err != nil {
		s.write(types.ErrorMessage(err))
		return
	}
	s.room = lb
	go s.forward(out)
}

func (s *session) unsubscribe() {
	if s.room == nil {
		return
	}
	// The lobby may already be gone; its outbox is closed either way.
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	_ = s.room.Unsubscribe(ctx, s.id)
	cancel()
	s.room = nil
}

// forward runs until the lobby closes out, on Leave, on a slow-client
// drop or on room shutdown.
func (s *session) forward(out <-chan lobby.Snapshot) {
	for snap := range out {
		if snap.Closed {
			s.write(types.ServerMessage{Type: types.EvtRoomClosed, Version: snap.Version, Message: snap.Reason})
			continue
		}
		s.write(types.RoomMessage(types.EvtRoomUpdated, snap.Version, snap.Room))
	}
}

func (s *session) write(msg types.ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("encode server message", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
	defer cancel()
	if err := s.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		s.log.Debug("websocket write", zap.Error(err))
	}
}

func (s *session) keepAlive() {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-t.C:
			ctx, cancel := context.WithTimeout(s.ctx, writeTimeout)
			err := s.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", engine.ErrValidation, msg)
}
