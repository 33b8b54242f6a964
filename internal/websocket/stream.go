package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"interviewcheck/internal/infrastructure"
	"interviewcheck/pkg/contracts/events"
)

const (
	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames
	maxMessageSize = 512

	defaultTick      = time.Second
	defaultWriteWait = 10 * time.Second
)

// SnapshotFunc returns the current state of the timer a stream follows.
type SnapshotFunc func(ctx context.Context) (events.TimerSnapshot, error)

// StreamConfig sets the pacing of a stream. Zero values use the defaults.
type StreamConfig struct {
	TickInterval time.Duration
	WriteWait    time.Duration
}

// TimerStream pushes the countdown of one interview to one client. It sends
// the current state on connect, a tick every interval while the timer runs,
// one expired message when it reaches zero and one stopped message when it
// is paused or reset. It ends when the client goes away or ctx is done.
type TimerStream struct {
	conn     Connection
	snapshot SnapshotFunc
	tick     time.Duration
	write    time.Duration
	logger   *slog.Logger

	last *events.TimerSnapshot
}

// NewTimerStream creates a stream over conn.
func NewTimerStream(conn Connection, snapshot SnapshotFunc, cfg StreamConfig, logger *slog.Logger) *TimerStream {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaultTick
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaultWriteWait
	}
	return &TimerStream{
		conn:     conn,
		snapshot: snapshot,
		tick:     cfg.TickInterval,
		write:    cfg.WriteWait,
		logger: logger.With(
			slog.String("component", "timer_stream"),
			slog.String("remote_addr", conn.RemoteAddr()),
		),
	}
}

// Run streams until the client disconnects or ctx is cancelled. It closes the connection.
func (s *TimerStream) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer s.conn.Close()

	started := time.Now()
	s.logger.InfoContext(ctx, "Timer stream opened",
		slog.String("trace_id", infrastructure.GetTraceID(ctx)))
	defer func() {
		s.logger.InfoContext(ctx, "Timer stream closed",
			slog.Duration("connection_duration", time.Since(started)))
	}()

	go s.readPump(cancel)

	if err := s.push(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(s.write))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case <-ticker.C:
			if err := s.push(ctx); err != nil {
				return err
			}
		case <-pinger.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.write))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.logger.DebugContext(ctx, "Failed to send ping message",
					slog.String("error", err.Error()))
				return nil
			}
		}
	}
}

// readPump discards client frames so control messages are processed, and
// cancels the stream once the connection fails.
func (s *TimerStream) readPump(cancel context.CancelFunc) {
	defer cancel()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("WebSocket read error", slog.String("error", err.Error()))
			}
			return
		}
	}
}

func (s *TimerStream) push(ctx context.Context) error {
	snap, err := s.snapshot(ctx)
	if err != nil {
		s.send(events.MessageTypeError, events.ErrorMessage{Code: "TIMER_UNAVAILABLE", Message: err.Error()})
		return err
	}

	msgType, ok := nextMessage(s.last, snap)
	s.last = &snap
	if !ok {
		return nil
	}
	return s.send(msgType, snap)
}

// nextMessage decides what, if anything, a new snapshot is worth sending.
func nextMessage(prev *events.TimerSnapshot, cur events.TimerSnapshot) (events.MessageType, bool) {
	switch {
	case cur.Running && cur.Expired:
		return events.MessageTypeTimerExpired, prev == nil || !prev.Expired
	case cur.Running:
		return events.MessageTypeTimerTick, true
	case prev == nil:
		if cur.Expired {
			return events.MessageTypeTimerExpired, true
		}
		return events.MessageTypeTimerStopped, true
	default:
		return events.MessageTypeTimerStopped, prev.Running
	}
}

func (s *TimerStream) send(msgType events.MessageType, data interface{}) error {
	msg := events.NewMessage(msgType, data)
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.write))
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		s.logger.Debug("Error writing message to WebSocket", slog.String("error", err.Error()))
		return err
	}
	return nil
}
