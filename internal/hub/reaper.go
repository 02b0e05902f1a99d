package hub

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/lobby"
)

const ReasonIdle = "room closed after a period of inactivity"

// ReapIdle closes every room whose last activity is before cutoff.
// Subscribers get the closing snapshot before the room is removed.
func (h *Hub) ReapIdle(ctx context.Context, cutoff time.Time) (int, error) {
	return h.closeWhere(ctx, ReasonIdle, func(lb *lobby.Lobby) bool {
		return lb.LastActive().Before(cutoff)
	})
}

// RunReaper checks for idle rooms every interval until ctx is done.
func (h *Hub) RunReaper(ctx context.Context, interval, idleTimeout time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := h.ReapIdle(ctx, now.Add(-idleTimeout))
			if err != nil {
				h.log.Warn("reap idle rooms", zap.Error(err))
				continue
			}
			if n > 0 {
				h.log.Info("reaped idle rooms", zap.Int("closed", n))
			}
		}
	}
}
