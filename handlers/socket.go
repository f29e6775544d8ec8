// handlers/socket.go
package handlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"healthpredict-web/dashboard"
	"healthpredict-web/session"
)

const (
	socketWriteWait  = 10 * time.Second
	socketPongWait   = 60 * time.Second
	socketPingPeriod = socketPongWait * 9 / 10
	socketMaxMessage = 1024
)

// socketRequest is a message from the browser's refresh control.
type socketRequest struct {
	Action string `json:"action"`
}

// socketMessage is pushed to the browser.
type socketMessage struct {
	Type  string           `json:"type"`
	Frame *dashboard.Frame `json:"frame,omitempty"`
	Error string           `json:"error,omitempty"`
}

// NewUpgrader accepts connections from the configured origins only.
func NewUpgrader(allowedOrigins []string) *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowed[origin]; ok {
				return true
			}
			return origin == "http://"+r.Host || origin == "https://"+r.Host
		},
	}
}

// DashboardSocket is the live refresh control of the combined dashboard.
// It loads and pushes a fresh frame on connect and one refreshed frame per
// {"action":"refresh"} message. While a refresh is running, further
// refresh messages on the same connection are answered with "busy".
func DashboardSocket(c Composer, upgrader *websocket.Upgrader, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := session.FromContext(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.WithError(err).Warn("WebSocket upgrade failed")
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		s := &socketSession{
			conn:     conn,
			composer: c,
			decision: d,
			logger: logger.WithFields(logrus.Fields{
				"email": d.Session.Email,
				"view":  d.View.String(),
			}),
		}

		initial := c.Load(ctx, d.View, d.Session.Email)
		if err := s.send(socketMessage{Type: "frame", Frame: &initial}); err != nil {
			return
		}

		go s.ping(ctx)
		s.readLoop(ctx)
		s.wg.Wait()
	}
}

type socketSession struct {
	conn     *websocket.Conn
	composer Composer
	decision session.Decision
	logger   *logrus.Entry

	writeMu sync.Mutex
	busy    atomic.Bool
	wg      sync.WaitGroup
}

func (s *socketSession) send(msg socketMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
	return s.conn.WriteJSON(msg)
}

func (s *socketSession) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(socketMaxMessage)
	s.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	for {
		var req socketRequest
		if err := s.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WithError(err).Debug("Dashboard socket closed")
			}
			return
		}

		if req.Action != "refresh" {
			s.send(socketMessage{Type: "error", Error: "unknown action"})
			continue
		}

		if !s.busy.CompareAndSwap(false, true) {
			s.send(socketMessage{Type: "busy"})
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()

			frame := s.composer.Refresh(ctx, s.decision.View, s.decision.Session.Email)
			s.busy.Store(false)
			if err := s.send(socketMessage{Type: "frame", Frame: &frame}); err != nil {
				s.logger.WithError(err).Debug("Failed to push refreshed frame")
			}
		}()
	}
}

func (s *socketSession) ping(ctx context.Context) {
	ticker := time.NewTicker(socketPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
