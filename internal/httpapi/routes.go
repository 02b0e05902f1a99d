package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/engine"
	"github.com/DoyleJ11/cardroom-backend/internal/hub"
	"github.com/DoyleJ11/cardroom-backend/internal/ws"
)

type Options struct {
	Logger         *zap.Logger
	Decks          DeckStore // nil keeps catalog edits in memory
	AdminPassword  string
	PublicURL      string
	OriginPatterns []string
	// Ping reports storage health on /healthz.
	Ping func(context.Context) error
}

func SetupRoutes(h *hub.Hub, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	cat := h.Catalog()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz(opts.Ping))
	r.Get("/ws", ws.Handler(h, ws.Options{Logger: log, OriginPatterns: opts.OriginPatterns}))
	r.Get("/decks", ListDecks(cat))

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", ListRooms(h, log))
		r.Post("/", CreateRoom(h, log))

		r.Route("/{roomID}", func(r chi.Router) {
			r.Get("/", GetRoom(h, log))
			r.Get("/invite.png", InviteQR(h, log, opts.PublicURL))
			r.Post("/join", RoomCommand(h, log, engine.CmdJoinRoom))
			r.Post("/leave", RoomCommand(h, log, engine.CmdLeaveRoom))
			r.Post("/start", RoomCommand(h, log, engine.CmdStartGame))
			r.Post("/play", RoomCommand(h, log, engine.CmdPlayCard))
			r.Post("/judge", RoomCommand(h, log, engine.CmdJudgeCard))
		})
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin(opts.AdminPassword, log))
		r.Post("/decks", CreateDeck(cat, opts.Decks, log))
		r.Delete("/decks/{deckID}", DeleteDeck(cat, opts.Decks, log))
		r.Post("/decks/{deckID}/cards", AddCard(cat, opts.Decks, log))
		r.Delete("/decks/{deckID}/cards/{cardID}", RemoveCard(cat, opts.Decks, log))
		r.Delete("/rooms", CleanRooms(h, log))
	})

	return r
}

func Healthz(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
