package lobby

import (
	"context"
	"time"

	"github.com/DoyleJ11/cardroom-backend/internal/engine"
)

// Expose the inbox so tests or transports can send raw messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }

func (l *Lobby) ID() string { return l.id }

// Done is closed once the room has stopped processing commands.
func (l *Lobby) Done() <-chan struct{} { return l.ctx.Done() }

func (l *Lobby) LastActive() time.Time {
	return time.Unix(0, l.lastActive.Load())
}

// Do enqueues cmd and waits for its result. Giving up on ctx does not
// cancel the command: once queued it runs to completion.
func (l *Lobby) Do(ctx context.Context, cmd engine.Command) (Result, error) {
	reply := make(chan Result, 1)
	if err := l.send(ctx, FromClient{Cmd: cmd, Reply: reply}); err != nil {
		return Result{}, err
	}

	select {
	case res := <-reply:
		return res, res.Err
	case <-l.ctx.Done():
		// The reply is written before the room cancels, so it may be waiting.
		select {
		case res := <-reply:
			return res, res.Err
		default:
			return Result{}, ErrClosed
		}
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (l *Lobby) Subscribe(ctx context.Context, clientID string, outbox chan Snapshot) error {
	return l.send(ctx, Join{ClientID: clientID, Outbox: outbox})
}

func (l *Lobby) Unsubscribe(ctx context.Context, clientID string) error {
	return l.send(ctx, Leave{ClientID: clientID})
}

// Close stops the room for good and tells subscribers why.
func (l *Lobby) Close(ctx context.Context, reason string) error {
	return l.send(ctx, Shutdown{Reason: reason})
}

func (l *Lobby) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := l.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-l.ctx.Done():
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

func (l *Lobby) send(ctx context.Context, m Msg) error {
	select {
	case <-l.ctx.Done():
		return ErrClosed
	default:
	}

	select {
	case l.inbox <- m:
		return nil
	case <-l.ctx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
