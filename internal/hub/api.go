package hub

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/DoyleJ11/cardroom-backend/internal/engine"
	"github.com/DoyleJ11/cardroom-backend/internal/lobby"
)

const (
	codeLength      = 6
	maxCodeAttempts = 16
)

var (
	ErrHubClosed = errors.New("hub is shut down")
	// ErrCodeSpace means no free room id was found.
	ErrCodeSpace = errors.New("could not allocate a room id")
)

// Generated ids can be overridden in tests.
var newCode = GenerateCode

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, codeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

// CreateRoom builds a room from the selected decks (the default decks when
// deckIDs is empty) and registers it under a fresh id.
func (h *Hub) CreateRoom(ctx context.Context, p engine.CreateParams, deckIDs []string) (engine.Room, error) {
	decks, err := h.catalog.Select(deckIDs)
	if err != nil {
		return engine.Room{}, fmt.Errorf("%w: %w", engine.ErrValidation, err)
	}

	for range maxCodeAttempts {
		code, err := newCode()
		if err != nil {
			return engine.Room{}, fmt.Errorf("generate room id: %w", err)
		}
		room, err := engine.NewRoom(code, p, decks)
		if err != nil {
			return engine.Room{}, err
		}

		lb, err := h.register(ctx, room, true, time.Time{})
		if err != nil {
			return engine.Room{}, err
		}
		if lb != nil {
			return room, nil
		}
		h.log.Debug("collision on room id, regenerating", zap.String("room", code))
	}
	return engine.Room{}, ErrCodeSpace
}

// Restore registers a room loaded from storage. Restored rooms are not
// saved again until their next command.
func (h *Hub) Restore(ctx context.Context, room engine.Room, lastActive time.Time) error {
	lb, err := h.register(ctx, room, false, lastActive)
	if err != nil {
		return err
	}
	if lb == nil {
		return fmt.Errorf("restore room %s: id already in use", room.ID)
	}
	return nil
}

func (h *Hub) register(ctx context.Context, room engine.Room, fresh bool, lastActive time.Time) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, CreateLobby{Room: room, Fresh: fresh, LastActive: lastActive, Reply: reply}); err != nil {
		return nil, err
	}
	return recv(ctx, h, reply)
}

func (h *Hub) Lookup(ctx context.Context, roomID string) (*lobby.Lobby, error) {
	reply := make(chan *lobby.Lobby, 1)
	if err := h.send(ctx, GetLobby{Code: roomID, Reply: reply}); err != nil {
		return nil, err
	}
	lb, err := recv(ctx, h, reply)
	if err != nil {
		return nil, err
	}
	if lb == nil {
		return nil, fmt.Errorf("%w: room %s does not exist", engine.ErrNotFound, roomID)
	}
	return lb, nil
}

// Dispatch routes cmd to its room and waits for the outcome. Restarting
// a finished game draws fresh queues from the room's decks.
func (h *Hub) Dispatch(ctx context.Context, roomID string, cmd engine.Command) (lobby.Result, error) {
	lb, err := h.Lookup(ctx, roomID)
	if err != nil {
		return lobby.Result{}, err
	}

	// Decks ride along on every start. Whether they refill the queues is
	// decided against the room state the command is applied to.
	if cmd.Type == engine.CmdStartGame && cmd.Decks == nil {
		v, err := lb.State(ctx)
		if err != nil {
			return lobby.Result{}, err
		}
		cmd.Decks = h.decksFor(v.Room) // DeckIDs never change after creation
	}
	return lb.Do(ctx, cmd)
}

// decksFor resolves the decks a room was created with, skipping decks
// deleted since. With none left it falls back to the defaults.
func (h *Hub) decksFor(r engine.Room) []deck.Deck {
	var decks []deck.Deck
	for _, id := range r.DeckIDs {
		if d, ok := h.catalog.Get(id); ok {
			decks = append(decks, d)
		}
	}
	if len(decks) == 0 {
		return h.catalog.Defaults()
	}
	return decks
}

func (h *Hub) listLobbies(ctx context.Context) ([]*lobby.Lobby, error) {
	reply := make(chan []*lobby.Lobby, 1)
	if err := h.send(ctx, ListLobbies{Reply: reply}); err != nil {
		return nil, err
	}
	return recv(ctx, h, reply)
}

// Rooms returns the current state of every open room, oldest first.
func (h *Hub) Rooms(ctx context.Context) ([]lobby.View, error) {
	lbs, err := h.listLobbies(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]lobby.View, 0, len(lbs))
	for _, lb := range lbs {
		v, err := lb.State(ctx)
		if errors.Is(err, lobby.ErrClosed) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	slices.SortFunc(views, func(a, b lobby.View) int {
		if c := a.Room.CreatedAt.Compare(b.Room.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Room.ID, b.Room.ID)
	})
	return views, nil
}

// CloseAll closes every open room for good and reports how many it closed.
func (h *Hub) CloseAll(ctx context.Context, reason string) (int, error) {
	return h.closeWhere(ctx, reason, func(*lobby.Lobby) bool { return true })
}

func (h *Hub) closeWhere(ctx context.Context, reason string, match func(*lobby.Lobby) bool) (int, error) {
	lbs, err := h.listLobbies(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, lb := range lbs {
		if !match(lb) {
			continue
		}
		if err := lb.Close(ctx, reason); err != nil {
			if errors.Is(err, lobby.ErrClosed) {
				continue
			}
			return n, err
		}
		n++
	}
	return n, nil
}

// Shutdown stops every room without deactivating it.
func (h *Hub) Shutdown() {
	select {
	case h.inbox <- ShutdownHub{}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) send(ctx context.Context, m HubMsg) error {
	select {
	case <-h.ctx.Done():
		return ErrHubClosed
	default:
	}

	select {
	case h.inbox <- m:
		return nil
	case <-h.ctx.Done():
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func recv[T any](ctx context.Context, h *Hub, reply chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-h.ctx.Done():
		return zero, ErrHubClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
