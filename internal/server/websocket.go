package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/llehouerou/airwaves/internal/playback"
)

const writeTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true // local feed, any page may read it
	},
}

// Message is sent on the websocket feed. Every state change carries a
// fresh snapshot; errors carry the failure as well.
type Message struct {
	Type       string         `json:"type"` // "snapshot", "error", "closed"
	NowPlaying *NowPlaying    `json:"now_playing,omitempty"`
	Error      *ErrorResponse `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	sub := s.engine.Subscribe()
	defer s.engine.Unsubscribe(sub)

	// Reads only to notice the client leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := s.sendSnapshot(conn); err != nil {
		return
	}

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		var msg *Message
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case <-sub.Done:
			_ = s.write(conn, Message{Type: "closed"})
			return
		case <-ticker.C:
			// Send ping to keep connection alive
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case ev := <-sub.Error:
			msg = s.errorMessage(ev)
		case <-sub.PlayerStateChanged:
		case <-sub.PlaybackStateChanged:
		case <-sub.ItemChanged:
		case <-sub.MetadataChanged:
		case <-sub.ArtworkChanged:
		case <-sub.TimeChanged:
		}

		if msg != nil {
			if err := s.write(conn, *msg); err != nil {
				return
			}
			continue
		}
		if err := s.sendSnapshot(conn); err != nil {
			return
		}
	}
}

func (s *Server) errorMessage(ev playback.ErrorEvent) *Message {
	np := toNowPlaying(s.engine.Snapshot())
	resp := &ErrorResponse{Operation: ev.Operation}
	if ev.Err != nil {
		resp.Message = ev.Err.Error()
	}
	return &Message{Type: "error", NowPlaying: &np, Error: resp}
}

func (s *Server) sendSnapshot(conn *websocket.Conn) error {
	np := toNowPlaying(s.engine.Snapshot())
	return s.write(conn, Message{Type: "snapshot", NowPlaying: &np})
}

func (s *Server) write(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("websocket write", "err", err)
		return err
	}
	return nil
}
