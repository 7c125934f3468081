package server

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type inboundFrame struct {
	Content string `json:"content"`
}

type errorFrame struct {
	Error string `json:"error"`
}

// liveConnection is the hub side of one websocket.
// Frames are buffered; when the buffer is full the frame is dropped, never blocking the pusher.
type liveConnection struct {
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newLiveConnection(conn *websocket.Conn, bufferSize int) *liveConnection {
	return &liveConnection{
		conn: conn,
		send: make(chan []byte, bufferSize),
		done: make(chan struct{}),
	}
}

func (l *liveConnection) Send(payload []byte) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.send <- payload:
		return true
	default:
		return false
	}
}

// Close is safe to call from the hub and from the connection's own teardown.
func (l *liveConnection) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Live upgrades the request, authenticates the token of the query string and
// checks membership before any frame is exchanged. A refused client gets a
// policy violation close frame.
func (s *ChatServer) Live(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "error", err)
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())

	user, room, err := s.admit(ctx, c.Query("token"), c.Param("room_id"))
	if err != nil {
		s.log.Info("Live connection refused", "room_id", c.Param("room_id"), "error", err)
		deadline := time.Now().Add(s.live.WriteTimeout)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()), deadline)
		_ = conn.Close()
		return
	}

	live := newLiveConnection(conn, s.live.BufferSize)
	s.hub.Register(user, live)
	log := s.log.With("user_id", user, "room_id", room)
	log.Debug("Live connection opened")

	go s.writePump(live, log)
	s.readPump(ctx, live, user, room, log)
}

func (s *ChatServer) admit(ctx context.Context, token, rawRoomID string) (domain.UserID, domain.RoomID, error) {
	user, err := s.verifier.VerifyToken(token)
	if err != nil {
		return domain.NoUser, domain.RoomID{}, err
	}
	roomID, err := domain.ParseRoomID(rawRoomID)
	if err != nil {
		return domain.NoUser, domain.RoomID{}, err
	}
	if _, err = s.rooms.GetRoom(ctx, user, roomID); err != nil {
		return domain.NoUser, domain.RoomID{}, err
	}
	return user, roomID, nil
}

// readPump owns the teardown: whatever ends the loop, the connection leaves the hub.
func (s *ChatServer) readPump(ctx context.Context, live *liveConnection, user domain.UserID, room domain.RoomID, log *slog.Logger) {
	defer func() {
		s.hub.Unregister(user, live)
		live.Close()
		_ = live.conn.Close()
		log.Debug("Live connection closed")
	}()

	if s.live.MaxFrameSize > 0 {
		live.conn.SetReadLimit(s.live.MaxFrameSize)
	}
	_ = live.conn.SetReadDeadline(time.Now().Add(s.live.PongTimeout))
	live.conn.SetPongHandler(func(string) error {
		return live.conn.SetReadDeadline(time.Now().Add(s.live.PongTimeout))
	})

	for {
		_, raw, err := live.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Live connection read failed", "error", err)
			}
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.reject(live, errors.ErrBadRequest, log)
			continue
		}
		if frame.Content == "" {
			continue
		}
		_, err = s.rooms.SendMessage(ctx, domain.SendMessageCommand{
			RoomID:   room,
			SenderID: user,
			Content:  frame.Content,
		})
		if err != nil {
			s.reject(live, err, log)
		}
	}
}

// reject answers the sender only. Infrastructure details stay in the logs.
func (s *ChatServer) reject(live *liveConnection, err error, log *slog.Logger) {
	message := err.Error()
	if errors.MapToHTTPStatus(err) >= 500 {
		log.Error("Live send failed", "error", err)
		message = "internal error"
	}
	payload, _ := json.Marshal(errorFrame{Error: message})
	live.Send(payload)
}

func (s *ChatServer) writePump(live *liveConnection, log *slog.Logger) {
	ticker := time.NewTicker(s.live.PongTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = live.conn.Close()
	}()
	for {
		select {
		case payload := <-live.send:
			_ = live.conn.SetWriteDeadline(time.Now().Add(s.live.WriteTimeout))
			if err := live.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug("Live write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = live.conn.SetWriteDeadline(time.Now().Add(s.live.WriteTimeout))
			if err := live.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-live.done:
			_ = live.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.live.WriteTimeout))
			return
		}
	}
}
