package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/DoyleJ11/cardroom-backend/internal/engine"
	"github.com/DoyleJ11/cardroom-backend/internal/hub"
	"github.com/DoyleJ11/cardroom-backend/internal/types"
)

const qrSize = 256

type createRoomRequest struct {
	Name                 string   `json:"name"`
	PlayerName           string   `json:"playerName"`
	HasPassword          bool     `json:"hasPassword"`
	Password             string   `json:"password"`
	MaxPlayers           int      `json:"maxPlayers"`
	TargetScore          int      `json:"targetScore"`
	RoundDurationSeconds int      `json:"roundDurationSeconds"`
	DeckIDs              []string `json:"deckIds"`
}

type commandRequest struct {
	PlayerName string `json:"playerName"`
	Password   string `json:"password"`
	PlayerID   string `json:"playerId"`
	CardID     string `json:"cardId"`
	Index      int    `json:"index"`
}

type roomResponse struct {
	Version int            `json:"version"`
	Room    types.RoomView `json:"room"`
}

func ListRooms(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := h.Rooms(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		out := make([]types.RoomSummary, 0, len(views))
		for _, v := range views {
			out = append(out, types.NewRoomSummary(v.Room))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoomRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		room, err := h.CreateRoom(r.Context(), engine.CreateParams{
			Name:                 req.Name,
			PlayerName:           req.PlayerName,
			HasPassword:          req.HasPassword,
			Password:             req.Password,
			MaxPlayers:           req.MaxPlayers,
			TargetScore:          req.TargetScore,
			RoundDurationSeconds: req.RoundDurationSeconds,
		}, req.DeckIDs)
		if err != nil {
			writeError(w, log, err)
			return
		}

		log.Info("room created", zap.String("room", room.ID), zap.String("name", room.Name))
		writeJSON(w, http.StatusCreated, types.JoinedRoom{
			PlayerID: room.Players[0].ID,
			Room:     types.NewRoomView(room),
		})
	}
}

func GetRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := h.Lookup(r.Context(), chi.URLParam(r, "roomID"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		v, err := lb.State(r.Context())
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, roomResponse{Version: v.Version, Room: types.NewRoomView(v.Room)})
	}
}

// RoomCommand runs one command of type typ against the room in the URL.
func RoomCommand(h *hub.Hub, log *zap.Logger, typ engine.CommandType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, log, err)
			return
		}

		cmd := engine.Command{
			Type:       typ,
			PlayerID:   req.PlayerID,
			PlayerName: req.PlayerName,
			Password:   req.Password,
			CardID:     req.CardID,
			Index:      req.Index,
		}
		res, err := h.Dispatch(r.Context(), chi.URLParam(r, "roomID"), cmd)
		if err != nil {
			writeError(w, log, err)
			return
		}

		if typ == engine.CmdJoinRoom {
			p, _ := res.Room.PlayerByName(req.PlayerName)
			writeJSON(w, http.StatusOK, types.JoinedRoom{
				PlayerID: p.ID,
				Version:  res.Version,
				Room:     types.NewRoomView(res.Room),
			})
			return
		}
		writeJSON(w, http.StatusOK, roomResponse{Version: res.Version, Room: types.NewRoomView(res.Room)})
	}
}

// InviteQR renders a PNG QR code linking to the room's join page.
func InviteQR(h *hub.Hub, log *zap.Logger, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		if _, err := h.Lookup(r.Context(), roomID); err != nil {
			writeError(w, log, err)
			return
		}

		png, err := qrcode.Encode(InviteURL(publicURL, roomID), qrcode.Medium, qrSize)
		if err != nil {
			writeError(w, log, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(png)
	}
}

func InviteURL(publicURL, roomID string) string {
	return strings.TrimRight(publicURL, "/") + "/join/" + roomID
}
