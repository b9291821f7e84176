package ws

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gorilla/websocket"

	"crewdeck/internal/game"
)

// Hub bridges websocket connections to the lobby and session coordinators:
// it admits new connections into the lobby and routes inbound events to the
// operation they name.
type Hub struct {
	lobby    *game.Lobby
	sessions *game.Registry
	log      *slog.Logger
}

func NewHub(lobby *game.Lobby, sessions *game.Registry, log *slog.Logger) *Hub {
	return &Hub{
		lobby:    lobby,
		sessions: sessions,
		log:      log.With("component", "ws"),
	}
}

func (h *Hub) Lobby() *game.Lobby       { return h.lobby }
func (h *Hub) Sessions() *game.Registry { return h.sessions }

// HandleConn runs one connection's lifetime: admit into the lobby, pump
// messages until the peer goes away.
func (h *Hub) HandleConn(conn *websocket.Conn) {
	c := newClient(h, conn, h.log)
	go c.writePump()

	p, err := h.lobby.AddPlayer(c)
	if err != nil {
		h.log.Warn("admission refused", "error", err)
		c.Send("error", map[string]string{"message": err.Error()})
		c.shutdown()
		return
	}
	c.setPlayer(p.ID)

	c.readPump()
}

func (h *Hub) route(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.log.Debug("unparseable frame", "player", c.player(), "error", err)
		return
	}

	switch env.Type {
	case game.EventPlayerReady:
		var p game.ReadyPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		if _, err := h.lobby.ReadyPlayer(c.player(), p.Ready); err != nil {
			c.Send("error", map[string]string{"message": err.Error()})
		}

	case game.EventGameJoin:
		var p game.JoinPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return
		}
		sess, err := h.sessions.Lookup(p.MatchID)
		if err == nil {
			_, err = sess.Join(p.PlayerID, c)
		}
		if err != nil {
			c.Send("error", map[string]string{"message": err.Error()})
			return
		}
		c.setPlayer(p.PlayerID)
		c.matchID = p.MatchID

	case game.EventActionExecute:
		var p game.ExecutePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil || c.matchID == "" {
			return
		}
		sess, err := h.sessions.Lookup(c.matchID)
		if err != nil {
			// match already torn down; benign race
			return
		}
		sess.ExecuteAction(p.ID)

	case game.EventPlayerLeave:
		if c.matchID != "" {
			return
		}
		if err := h.lobby.RemovePlayer(c.player()); err != nil && !errors.Is(err, game.ErrNotFound) {
			h.log.Warn("leave failed", "player", c.player(), "error", err)
		}

	default:
		h.log.Debug("unknown event", "type", env.Type, "player", c.player())
	}
}
