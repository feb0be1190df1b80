package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "ask"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format. Answers stream as a
// series of "chunk" messages followed by one final "response".
type chatResponse struct {
	Type      string `json:"type"` // "chunk", "response" or "error"
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	OK        bool   `json:"ok,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendChatError(conn, "", "invalid message format")
			continue
		}
		if req.Content == "" {
			s.sendChatError(conn, req.SessionID, "content is required")
			continue
		}

		switch req.Type {
		case "ask":
			s.handleChatAsk(conn, r, req)
		default:
			s.sendChatError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (s *Server) handleChatAsk(conn *websocket.Conn, r *http.Request, req chatRequest) {
	sessionID := req.SessionID
	if sessionID == "" && s.sessions != nil {
		sess, err := s.sessions.CreateSession("")
		if err != nil {
			s.sendChatError(conn, "", "failed to create session: "+err.Error())
			return
		}
		sessionID = sess.ID
	}

	hist, _, err := s.loadHistory(sessionID)
	if err != nil {
		s.sendChatError(conn, sessionID, "unknown session")
		return
	}

	stream := func(chunk string) {
		s.sendChatResponse(conn, chatResponse{
			Type:      "chunk",
			SessionID: sessionID,
			Content:   chunk,
		})
	}

	ok, answer, err := s.answerer.Answer(r.Context(), req.Content, hist, stream)
	if err != nil {
		s.sendChatError(conn, sessionID, "answer generation failed: "+err.Error())
		return
	}

	if ok && sessionID != "" {
		s.recordTurn(sessionID, req.Content, answer)
	}
	s.sendChatResponse(conn, chatResponse{
		Type:      "response",
		SessionID: sessionID,
		Content:   answer,
		OK:        ok,
	})
}

func (s *Server) sendChatResponse(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}

func (s *Server) sendChatError(conn *websocket.Conn, sessionID, message string) {
	s.sendChatResponse(conn, chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	})
}
