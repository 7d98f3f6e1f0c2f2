package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

// Socket is the gateway's connection to the backend chat websocket. Frames
// are JSON envelopes of the form {"event": "...", "data": {...}} in both
// directions. There is no automatic reconnect: when the connection drops the
// hub falls back to REST until Connect is called again.
type Socket struct {
	url    string
	sess   *session.Store
	logger zerolog.Logger

	// OnEvent receives every decoded frame. Set before Connect.
	OnEvent func(event string, data json.RawMessage)

	mu   sync.Mutex
	conn *websocket.Conn
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewSocket prepares a socket against the backend chat endpoint. url is the
// full ws:// or wss:// URL.
func NewSocket(url string, sess *session.Store, logger zerolog.Logger) *Socket {
	return &Socket{url: url, sess: sess, logger: logger}
}

// Connect dials the backend and starts the read loop. A connection that is
// already open is left alone.
func (s *Socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return nil
	}

	token := s.sess.AccessToken()
	if token == "" {
		return fmt.Errorf("chat socket: not authenticated")
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.Dial(ctx, s.url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return fmt.Errorf("chat socket: dial %s: %w", s.url, err)
	}
	s.conn = conn
	s.logger.Info().Str("url", s.url).Msg("chat socket connected")

	go s.readLoop(conn)
	return nil
}

// Connected reports whether the socket currently holds an open connection.
func (s *Socket) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Emit sends one event frame. Fails when the socket is down.
func (s *Socket) Emit(ctx context.Context, event string, data any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("chat socket: not connected")
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("chat socket: encode %s: %w", event, err)
	}
	payload, err := json.Marshal(frame{Event: event, Data: encoded})
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		s.drop(conn)
		return fmt.Errorf("chat socket: write %s: %w", event, err)
	}
	return nil
}

// Close tears the connection down. Safe to call when already closed.
func (s *Socket) Close() {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()
	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "closing")
	}
}

func (s *Socket) readLoop(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("chat socket closed")
			s.drop(conn)
			return
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.logger.Warn().Err(err).Msg("chat socket: bad frame")
			continue
		}
		if s.OnEvent != nil {
			s.OnEvent(f.Event, f.Data)
		}
	}
}

// drop clears the stored connection if it is still the one that failed.
func (s *Socket) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
	conn.Close(websocket.StatusInternalError, "connection lost")
}
