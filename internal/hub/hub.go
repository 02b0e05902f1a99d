package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/DoyleJ11/cardroom-backend/internal/engine"
	"github.com/DoyleJ11/cardroom-backend/internal/lobby"
)

type HubMsg interface{ isHubMsg() }

// CreateLobby starts a lobby for Room. The reply is nil when the id is
// already taken.
type CreateLobby struct {
	Room       engine.Room
	Fresh      bool
	LastActive time.Time
	Reply      chan *lobby.Lobby
}

type GetLobby struct {
	Code  string
	Reply chan *lobby.Lobby
}

// RemoveLobby forgets Code, but only while it still maps to Lobby.
type RemoveLobby struct {
	Code  string
	Lobby *lobby.Lobby
}

type ListLobbies struct {
	Reply chan []*lobby.Lobby
}

type ShutdownHub struct{}

func (CreateLobby) isHubMsg() {}
func (GetLobby) isHubMsg()    {}
func (RemoveLobby) isHubMsg() {}
func (ListLobbies) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Options struct {
	Logger    *zap.Logger
	Persister lobby.Persister
	Catalog   *deck.Catalog
	TimerUnit time.Duration
}

// Hub is the room registry. Only its loop touches the map.
type Hub struct {
	inbox   chan HubMsg
	lobbies map[string]*lobby.Lobby
	ctx     context.Context
	cancel  context.CancelFunc

	log       *zap.Logger
	persist   lobby.Persister
	catalog   *deck.Catalog
	timerUnit time.Duration
}

func NewHub(parent context.Context, opts Options) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Catalog == nil {
		opts.Catalog = deck.NewCatalog(deck.DefaultDecks()...)
	}

	h := &Hub{
		inbox:     make(chan HubMsg, 64),
		lobbies:   make(map[string]*lobby.Lobby),
		ctx:       ctx,
		cancel:    cancel,
		log:       opts.Logger,
		persist:   opts.Persister,
		catalog:   opts.Catalog,
		timerUnit: opts.TimerUnit,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) Catalog() *deck.Catalog { return h.catalog }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			// Lobbies are children of h.ctx and stop on their own.
			clear(h.lobbies)
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateLobby:
				if h.lobbies[msg.Room.ID] != nil {
					msg.Reply <- nil
					break
				}
				lb := lobby.NewLobby(h.ctx, msg.Room, lobby.Options{
					Logger:     h.log,
					Persister:  h.persist,
					OnClosed:   h.forget,
					Fresh:      msg.Fresh,
					LastActive: msg.LastActive,
					TimerUnit:  h.timerUnit,
				})
				h.lobbies[msg.Room.ID] = lb
				h.log.Info("room opened", zap.String("room", msg.Room.ID), zap.Int("rooms", len(h.lobbies)))
				msg.Reply <- lb

			case GetLobby:
				msg.Reply <- h.lobbies[msg.Code] // May be nil

			case RemoveLobby:
				if h.lobbies[msg.Code] == msg.Lobby {
					delete(h.lobbies, msg.Code)
					h.log.Info("room removed", zap.String("room", msg.Code), zap.Int("rooms", len(h.lobbies)))
				}

			case ListLobbies:
				out := make([]*lobby.Lobby, 0, len(h.lobbies))
				for _, lb := range h.lobbies {
					out = append(out, lb)
				}
				msg.Reply <- out

			case ShutdownHub:
				clear(h.lobbies)
				h.cancel()
				return
			}
		}
	}
}

func (h *Hub) forget(lb *lobby.Lobby) {
	select {
	case h.inbox <- RemoveLobby{Code: lb.ID(), Lobby: lb}:
	case <-h.ctx.Done():
	}
}
