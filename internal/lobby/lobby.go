package lobby

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/engine"
)

// ErrClosed is returned to callers whose command reaches a room that has
// already shut down. It matches engine.ErrNotFound.
var ErrClosed = fmt.Errorf("%w: room is closed", engine.ErrNotFound)

const (
	persistTimeout     = 5 * time.Second
	defaultTimerUnit   = time.Second
	ReasonEmpty        = "room is empty"
	ReasonServerClosed = "server shutting down"
)

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	Cmd   engine.Command
	Reply chan Result // optional, must be buffered
}

func (FromClient) isLobbyMsg() {}

type Result struct {
	Room    engine.Room
	Version int
	Err     error
}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{ Reason string }

func (Shutdown) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

// PrimeTimer (re)arms the round timer for the current round.
type PrimeTimer struct{}

func (PrimeTimer) isLobbyMsg() {}

type timerFired struct{ gen int }

func (timerFired) isLobbyMsg() {}

// Snapshot is what subscribers receive: the whole room, every time. The
// final snapshot of a room has Closed set.
type Snapshot struct {
	Version int
	Room    engine.Room
	Closed  bool
	Reason  string
}

type View struct {
	Version    int
	NumClients int
	Room       engine.Room
	LastActive time.Time
}

// Persister receives every committed room state.
type Persister interface {
	SaveRoom(ctx context.Context, room engine.Room, lastActive time.Time) error
	DeactivateRoom(ctx context.Context, roomID string) error
}

type Options struct {
	Logger    *zap.Logger
	Persister Persister
	// OnClosed runs on its own goroutine after the room stops for good
	// (emptied or closed), not on server shutdown.
	OnClosed func(*Lobby)
	// Fresh rooms are saved once before the first command.
	Fresh bool
	// LastActive seeds the activity clock of a restored room.
	LastActive time.Time
	// TimerUnit scales Room.RoundDurationSeconds. Defaults to a second.
	TimerUnit time.Duration
}

// Lobby owns one room. Every mutation goes through its inbox and is
// applied by a single goroutine, in arrival order.
type Lobby struct {
	id         string
	inbox      chan Msg
	state      engine.Room
	version    int
	clients    map[string]chan Snapshot
	lastActive atomic.Int64

	timer     *time.Timer
	timerGen  int
	timerUnit time.Duration

	log      *zap.Logger
	persist  Persister
	onClosed func(*Lobby)
	fresh    bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewLobby(parent context.Context, initial engine.Room, opts Options) *Lobby {
	ctx, cancel := context.WithCancel(parent)

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TimerUnit <= 0 {
		opts.TimerUnit = defaultTimerUnit
	}

	l := &Lobby{
		id:        initial.ID,
		inbox:     make(chan Msg, 64), // Small buffer
		state:     initial,
		clients:   make(map[string]chan Snapshot),
		timerUnit: opts.TimerUnit,
		log:       opts.Logger.With(zap.String("room", initial.ID)),
		persist:   opts.Persister,
		onClosed:  opts.OnClosed,
		fresh:     opts.Fresh,
		ctx:       ctx,
		cancel:    cancel,
	}

	active := opts.LastActive
	if active.IsZero() {
		active = time.Now()
	}
	l.lastActive.Store(active.UnixNano())

	go l.loop()
	return l
}

func (l *Lobby) loop() {
	if l.fresh {
		l.save()
	}
	if l.state.Status == engine.StatusPlaying {
		l.armTimer()
	}

	for {
		select {
		case <-l.ctx.Done():
			l.shutdown(ReasonServerClosed, false)
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				if old, ok := l.clients[msg.ClientID]; ok && old != msg.Outbox {
					close(old)
				}
				l.clients[msg.ClientID] = msg.Outbox
				select {
				case msg.Outbox <- Snapshot{Version: l.version, Room: l.state}:
				default:
				}

			case Leave:
				if ch, ok := l.clients[msg.ClientID]; ok {
					close(ch)
					delete(l.clients, msg.ClientID)
				}

			case FromClient:
				res, emptied := l.apply(msg.Cmd)
				if msg.Reply != nil {
					msg.Reply <- res
				}
				if emptied {
					l.shutdown(ReasonEmpty, true)
					return
				}

			case GetState:
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					Room:       l.state,
					LastActive: l.LastActive(),
				}

			case PrimeTimer:
				l.armTimer()

			case timerFired:
				if msg.gen != l.timerGen {
					// A newer round (or a stop) superseded this fire.
					break
				}
				if l.autoPlay() {
					l.shutdown(ReasonEmpty, true)
					return
				}

			case Shutdown:
				l.shutdown(msg.Reason, true)
				return
			}
		}
	}
}

// apply runs one command to completion. It reports whether the room is
// now empty and must close.
func (l *Lobby) apply(cmd engine.Command) (Result, bool) {
	events, next, err := engine.Apply(l.state, cmd)
	if err != nil {
		l.log.Debug("command rejected",
			zap.String("command", string(cmd.Type)),
			zap.String("kind", string(engine.KindOf(err))),
			zap.Error(err))
		return Result{Room: l.state, Version: l.version, Err: err}, false
	}
	if len(events) == 0 {
		return Result{Room: l.state, Version: l.version}, false
	}

	l.state = next
	l.version++
	l.lastActive.Store(time.Now().UnixNano())

	l.log.Debug("command applied",
		zap.String("command", string(cmd.Type)),
		zap.Int("version", l.version),
		zap.String("status", string(l.state.Status)))

	l.save()
	l.broadcast(Snapshot{Version: l.version, Room: l.state})

	// A round can start and settle within one command.
	switch {
	case engine.ContainsEvent(events, engine.EvtJudgingStarted),
		engine.ContainsEvent(events, engine.EvtGameFinished),
		engine.ContainsEvent(events, engine.EvtGamePaused):
		l.stopTimer()
	case engine.ContainsEvent(events, engine.EvtRoundStarted):
		l.armTimer()
	}

	return Result{Room: l.state, Version: l.version}, engine.ContainsEvent(events, engine.EvtRoomEmptied)
}

// autoPlay submits a random hand card for everyone who let the round timer
// run out. Each submission is an ordinary command.
func (l *Lobby) autoPlay() bool {
	pending := l.state.Pending()
	if len(pending) == 0 {
		return false
	}
	l.log.Info("round timer expired", zap.Int("round", l.state.Round), zap.Int("pending", len(pending)))

	for _, p := range pending {
		card, ok := engine.RandomHandCard(l.state, p.ID)
		if !ok {
			l.log.Warn("cannot auto-play, empty hand", zap.String("player", p.ID))
			continue
		}
		if _, emptied := l.apply(engine.Command{Type: engine.CmdPlayCard, PlayerID: p.ID, CardID: card.ID}); emptied {
			return true
		}
	}
	return false
}

func (l *Lobby) armTimer() {
	l.stopTimer()
	if l.state.Status != engine.StatusPlaying || l.state.RoundDurationSeconds <= 0 {
		return
	}

	gen := l.timerGen
	d := time.Duration(l.state.RoundDurationSeconds) * l.timerUnit
	l.timer = time.AfterFunc(d, func() {
		select {
		case l.inbox <- timerFired{gen: gen}:
		case <-l.ctx.Done():
		}
	})
}

// stopTimer also bumps the generation so a fire already sitting in the
// inbox is ignored.
func (l *Lobby) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.timerGen++
}

func (l *Lobby) save() {
	if l.persist == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := l.persist.SaveRoom(ctx, l.state, l.LastActive()); err != nil {
		l.log.Error("persist room", zap.Int("version", l.version), zap.Error(err))
	}
}

// shutdown notifies subscribers with a final closed snapshot. Delivery is
// best effort. Server shutdown keeps the room active in storage so it can
// be restored on the next boot.
func (l *Lobby) shutdown(reason string, final bool) {
	l.stopTimer()

	if final && l.persist != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := l.persist.DeactivateRoom(ctx, l.id); err != nil {
			l.log.Error("deactivate room", zap.Error(err))
		}
		cancel()
	}

	closed := Snapshot{Version: l.version, Room: l.state, Closed: true, Reason: reason}
	for id, ch := range l.clients {
		select {
		case ch <- closed:
		default:
		}
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}

	l.log.Info("room closed", zap.String("reason", reason))
	l.cancel()

	if final && l.onClosed != nil {
		go l.onClosed(l)
	}
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		select {
		case ch <- snap:
			//ok
		default:
			// Client is slow/full - drop them.
			l.log.Warn("dropping slow subscriber", zap.String("client", id))
			close(ch)
			delete(l.clients, id)
		}
	}
}
