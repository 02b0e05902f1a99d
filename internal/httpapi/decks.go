package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/deck"
	"github.com/DoyleJ11/cardroom-backend/internal/engine"
	"github.com/DoyleJ11/cardroom-backend/internal/hub"
)

const (
	AdminHeader        = "X-Admin-Password"
	ReasonAdminCleanup = "room closed by an administrator"
)

// DeckStore persists catalog edits. The in-memory catalog is only
// updated once the store accepted the change.
type DeckStore interface {
	SaveDeck(ctx context.Context, d deck.Deck) error
	DeleteDeck(ctx context.Context, deckID string) error
	AddCard(ctx context.Context, deckID string, card deck.Card) error
	RemoveCard(ctx context.Context, deckID, cardID string) error
}

type createDeckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsDefault   bool   `json:"isDefault"`
}

type addCardRequest struct {
	Text string    `json:"text"`
	Kind deck.Kind `json:"kind"`
}

// RequireAdmin rejects requests without the shared admin password.
func RequireAdmin(password string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(AdminHeader)
			if password == "" || subtle.ConstantTimeCompare([]byte(got), []byte(password)) != 1 {
				writeError(w, log, fmt.Errorf("%w: admin password required", engine.ErrAuth))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ListDecks(cat *deck.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.All())
	}
}

func CreateDeck(cat *deck.Catalog, ds DeckStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDeckRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, log, err)
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, log, fmt.Errorf("%w: deck name is required", engine.ErrValidation))
			return
		}

		d := deck.Deck{ID: uuid.NewString(), Name: req.Name, Description: req.Description, IsDefault: req.IsDefault}
		if ds != nil {
			if err := ds.SaveDeck(r.Context(), d); err != nil {
				writeError(w, log, err)
				return
			}
		}
		cat.Put(d)

		log.Info("deck created", zap.String("deck", d.ID), zap.String("name", d.Name))
		writeJSON(w, http.StatusCreated, d)
	}
}

func DeleteDeck(cat *deck.Catalog, ds DeckStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID := chi.URLParam(r, "deckID")
		if _, ok := cat.Get(deckID); !ok {
			writeError(w, log, catalogError(fmt.Errorf("%w: %s", deck.ErrUnknownDeck, deckID)))
			return
		}
		if ds != nil {
			if err := ds.DeleteDeck(r.Context(), deckID); err != nil {
				writeError(w, log, err)
				return
			}
		}
		cat.Remove(deckID)

		log.Info("deck deleted", zap.String("deck", deckID))
		w.WriteHeader(http.StatusNoContent)
	}
}

func AddCard(cat *deck.Catalog, ds DeckStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID := chi.URLParam(r, "deckID")
		var req addCardRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, log, err)
			return
		}
		req.Text = strings.TrimSpace(req.Text)
		if req.Text == "" {
			writeError(w, log, fmt.Errorf("%w: card text is required", engine.ErrValidation))
			return
		}
		if req.Kind != deck.KindPrompt && req.Kind != deck.KindResponse {
			writeError(w, log, fmt.Errorf("%w: card kind must be %q or %q", engine.ErrValidation, deck.KindPrompt, deck.KindResponse))
			return
		}
		if _, ok := cat.Get(deckID); !ok {
			writeError(w, log, catalogError(fmt.Errorf("%w: %s", deck.ErrUnknownDeck, deckID)))
			return
		}

		card := deck.Card{ID: uuid.NewString(), Text: req.Text, DeckID: deckID, Kind: req.Kind}
		if ds != nil {
			if err := ds.AddCard(r.Context(), deckID, card); err != nil {
				writeError(w, log, err)
				return
			}
		}
		if err := cat.AddCard(deckID, card); err != nil {
			writeError(w, log, catalogError(err))
			return
		}
		writeJSON(w, http.StatusCreated, card)
	}
}

func RemoveCard(cat *deck.Catalog, ds DeckStore, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deckID, cardID := chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID")
		if ds != nil {
			if err := ds.RemoveCard(r.Context(), deckID, cardID); err != nil {
				writeError(w, log, err)
				return
			}
		}
		if err := cat.RemoveCard(deckID, cardID); err != nil {
			writeError(w, log, catalogError(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CleanRooms closes every open room.
func CleanRooms(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := h.CloseAll(r.Context(), ReasonAdminCleanup)
		if err != nil {
			writeError(w, log, err)
			return
		}
		log.Info("rooms cleaned", zap.Int("closed", n))
		writeJSON(w, http.StatusOK, struct {
			Closed int `json:"closed"`
		}{Closed: n})
	}
}

func catalogError(err error) error {
	if errors.Is(err, deck.ErrUnknownDeck) || errors.Is(err, deck.ErrUnknownCard) {
		return fmt.Errorf("%w: %w", engine.ErrNotFound, err)
	}
	return err
}
