// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/notify"
	"github.com/danielhkuo/livepoll/service"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Viewers only send control frames
	maxMessageSize = 512
)

type StreamHandler struct {
	svc      *service.PollService
	upgrader websocket.Upgrader
	l        *zap.Logger
}

// NewStreamHandler accepts upgrades from allowedOrigin, or from any
// origin when it is "*".
func NewStreamHandler(svc *service.PollService, allowedOrigin string, l *zap.Logger) *StreamHandler {
	return &StreamHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || allowedOrigin == "" || origin == "" || origin == allowedOrigin
			},
		},
		l: l,
	}
}

// Stream handles GET /polls/{id}/stream
// Pushes one JSON frame per admitted vote until the client leaves or the
// hub drops it.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	// Subscribe before upgrading so unknown polls get a plain 404
	sub, err := h.svc.Subscribe(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.l, err, "poll not found")
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		h.l.Warn("websocket upgrade failed", zap.String("poll_id", sub.PollID()), zap.Error(err))
		return
	}
	defer conn.Close()

	h.l.Debug("stream opened", zap.String("poll_id", sub.PollID()), zap.String("remote", r.RemoteAddr))

	readDone := make(chan struct{})
	go h.readPump(conn, readDone)
	h.writePump(conn, sub, readDone)
}

// readPump discards client frames and keeps the read deadline fresh
func (h *StreamHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.l.Warn("stream read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *StreamHandler) writePump(conn *websocket.Conn, sub *notify.Subscription, readDone <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev := <-sub.Events():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.l.Debug("stream write failed", zap.String("poll_id", sub.PollID()), zap.Error(err))
				return
			}
		case <-sub.Done():
			// Dropped by the hub or shutting down; the client reconnects and re-reads results
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "subscription ended")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		case <-readDone:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
