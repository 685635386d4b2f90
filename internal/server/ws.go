package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/veritas/internal/pipeline"
)

type inboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// WSHandler owns the per-session websocket connections. Each connection is
// served by one goroutine, and inbound messages are processed sequentially,
// so one session never runs two pipelines at once while independent
// sessions proceed concurrently.
type WSHandler struct {
	runner   *pipeline.Runner
	followup *pipeline.FollowupHandler
	secret   []byte
	upgrader websocket.Upgrader
	logger   *log.Logger
}

func NewWSHandler(runner *pipeline.Runner, followup *pipeline.FollowupHandler, secret []byte) *WSHandler {
	return &WSHandler{
		runner:   runner,
		followup: followup,
		secret:   secret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: log.New(log.Writer(), "[WS] ", log.LstdFlags),
	}
}

func (h *WSHandler) Handle(c echo.Context) error {
	if len(h.secret) > 0 {
		if err := verifyToken(c, h.secret); err != nil {
			return err
		}
	}

	sessionID := strings.TrimSpace(c.Param("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	h.logger.Printf("connection established for session %s", sessionID)

	sink := newWSSink(conn, sessionID)
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Printf("connection closed for session %s: %v", sessionID, err)
			return nil
		}

		// Runs deliberately use a background context: a client that
		// disconnects mid-run does not cancel the run, and the snapshot is
		// still persisted for later follow-ups.
		switch msg.Type {
		case "new_question":
			if _, err := h.runner.Run(context.Background(), sessionID, msg.Content, sink); err != nil {
				h.logger.Printf("session %s: run aborted: %v", sessionID, err)
			}
		case "followup":
			if err := h.followup.Handle(context.Background(), sessionID, msg.Content, sink); err != nil {
				h.logger.Printf("session %s: follow-up failed: %v", sessionID, err)
			}
		default:
			h.logger.Printf("warning: invalid message type received: %s", msg.Type)
		}
	}
}

// wsSink serializes event writes onto one websocket connection. Every
// outgoing event is stamped with the session id so a client on the bare
// /ws route learns the minted id and can reconnect for follow-ups.
type wsSink struct {
	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
}

func newWSSink(conn *websocket.Conn, sessionID string) *wsSink {
	return &wsSink{conn: conn, sessionID: sessionID}
}

func (s *wsSink) Send(ev pipeline.Event) error {
	ev.SessionID = s.sessionID
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(ev)
}
