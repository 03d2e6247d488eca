package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the chat endpoints.
func RegisterRoutes(r chi.Router, c *Companion) {
	r.Get("/api/sessions/{id}/chat", historyHandler(c))
	r.Post("/api/sessions/{id}/chat", replyHandler(c))
	r.Get("/ws/sessions/{id}/chat", c.handleWebSocket)
}

type replyRequest struct {
	Message string `json:"message"`
}

type replyResponse struct {
	Reply *session.Message `json:"reply"`
}

func historyHandler(c *Companion) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msgs, err := c.History(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			session.WriteError(w, err, nil, "")
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func replyHandler(c *Companion) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req replyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, session.ErrorResponse{Error: "invalid request body"})
			return
		}
		reply, err := c.Reply(r.Context(), chi.URLParam(r, "id"), req.Message)
		if err != nil {
			session.WriteError(w, err, nil, session.NoticeChatFailed)
			return
		}
		writeJSON(w, http.StatusOK, replyResponse{Reply: reply})
	}
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string `json:"type"` // "message"
	Content string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string `json:"type"` // "response" or "error"
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	Status    int    `json:"status,omitempty"`
}

func (c *Companion) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if _, err := c.store.Get(r.Context(), sessionID); err != nil {
		session.WriteError(w, err, nil, "")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			c.send(conn, wsResponse{Type: "error", SessionID: sessionID, Content: "invalid message format", Status: http.StatusBadRequest})
			continue
		}
		if req.Type != "message" {
			c.send(conn, wsResponse{Type: "error", SessionID: sessionID, Content: "unknown message type: " + req.Type, Status: http.StatusBadRequest})
			continue
		}

		reply, err := c.Reply(r.Context(), sessionID, req.Content)
		if err != nil {
			body := session.NewErrorResponse(err, nil, session.NoticeChatFailed)
			c.send(conn, wsResponse{Type: "error", SessionID: sessionID, Content: body.Error, Status: session.StatusFor(err)})
			continue
		}
		c.send(conn, wsResponse{Type: "response", SessionID: sessionID, Content: reply.Content})
	}
}

func (c *Companion) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		c.logger.Warn("websocket write", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
