// Package chat keeps the admin's chat state inside the gateway: the
// conversation list, per-conversation message caches and unread counts. New
// messages can arrive from three sources (REST history loads, the backend
// socket, and send responses), so everything funnels through a single
// merge-by-ID path that keeps each conversation sorted by creation time.
package chat

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
)

// Socket events the backend emits and accepts.
const (
	EventNewMessage  = "new_message"
	EventMessageSent = "message_sent"
	EventSendMessage = "send_message"
)

var (
	eventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard",
		Subsystem: "chat",
		Name:      "events_received_total",
		Help:      "Chat socket events received from the backend.",
	}, []string{"event"})
	messagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboard",
		Subsystem: "chat",
		Name:      "messages_sent_total",
		Help:      "Chat messages sent, by delivery path.",
	}, []string{"path"})
)

// API is the slice of the backend client the hub needs.
type API interface {
	ListConversations(ctx context.Context) ([]facultypedia.ChatConversation, error)
	ListMessages(ctx context.Context, conversationID string, page, limit int) ([]facultypedia.ChatMessage, facultypedia.Pagination, error)
	SendMessage(ctx context.Context, p facultypedia.SendMessageParams) (facultypedia.ChatMessage, error)
	MarkMessageRead(ctx context.Context, messageID string) error
	MarkConversationRead(ctx context.Context, conversationID string) error
	UnreadCount(ctx context.Context) (int, error)
}

// Emitter is the socket side the hub sends through.
type Emitter interface {
	Connected() bool
	Connect(ctx context.Context) error
	Emit(ctx context.Context, event string, data any) error
}

// Event is a chat update pushed to subscribed dashboard connections.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type conversationState struct {
	messages []facultypedia.ChatMessage // sorted ascending by CreatedAt
	seen     map[string]struct{}
	unread   int
}

// Hub is the chat state machine. Safe for concurrent use.
type Hub struct {
	api    API
	socket Emitter
	logger zerolog.Logger

	mu            sync.Mutex
	conversations []facultypedia.ChatConversation
	states        map[string]*conversationState
	activeID      string

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan Event
}

func NewHub(api API, socket Emitter, logger zerolog.Logger) *Hub {
	return &Hub{
		api:    api,
		socket: socket,
		logger: logger,
		states: map[string]*conversationState{},
		subs:   map[int]chan Event{},
	}
}

// HandleSocketEvent is wired as the socket's OnEvent sink.
func (h *Hub) HandleSocketEvent(event string, data json.RawMessage) {
	eventsReceived.WithLabelValues(event).Inc()
	switch event {
	case EventNewMessage, EventMessageSent:
		var msg facultypedia.ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Warn().Err(err).Str("event", event).Msg("chat: bad message payload")
			return
		}
		h.ingest(msg)
	default:
		h.logger.Debug().Str("event", event).Msg("chat: ignoring event")
	}
	h.broadcast(Event{Event: event, Data: data})
}

// Conversations refreshes the conversation list from the backend. Unread
// counts already zeroed locally by an open conversation stay zeroed until the
// backend catches up.
func (h *Hub) Conversations(ctx context.Context) ([]facultypedia.ChatConversation, error) {
	convs, err := h.api.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range convs {
		if state, ok := h.states[convs[i].ID]; ok {
			convs[i].UnreadCount = state.unread
		} else {
			h.states[convs[i].ID] = &conversationState{
				seen:   map[string]struct{}{},
				unread: convs[i].UnreadCount,
			}
		}
	}
	h.conversations = convs
	return slices.Clone(convs), nil
}

// OpenConversation loads a page of history, makes the conversation the active
// one and optimistically marks it read: every cached inbound message ends up
// with IsRead set. The read receipt failing on the backend is logged but does
// not undo the local state.
func (h *Hub) OpenConversation(ctx context.Context, id string, page, limit int) ([]facultypedia.ChatMessage, facultypedia.Pagination, error) {
	h.EnsureSocket(ctx)

	history, pagination, err := h.api.ListMessages(ctx, id, page, limit)
	if err != nil {
		return nil, facultypedia.Pagination{}, err
	}

	h.mu.Lock()
	h.activeID = id
	state := h.stateLocked(id)
	for _, msg := range history {
		h.mergeLocked(state, msg)
	}
	now := time.Now()
	for i := range state.messages {
		m := &state.messages[i]
		if m.Sender.UserType != "admin" && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &now
		}
	}
	state.unread = 0
	messages := slices.Clone(state.messages)
	h.mu.Unlock()

	if err := h.api.MarkConversationRead(ctx, id); err != nil {
		h.logger.Warn().Err(err).Str("conversation", id).Msg("chat: mark read failed")
	}
	return messages, pagination, nil
}

// CloseConversation clears the active conversation so new messages count as
// unread again.
func (h *Hub) CloseConversation(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.activeID == id {
		h.activeID = ""
	}
}

// Messages returns the cached messages of a conversation.
func (h *Hub) Messages(id string) []facultypedia.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	state, ok := h.states[id]
	if !ok {
		return nil
	}
	return slices.Clone(state.messages)
}

// Send delivers a message over the socket when it is up, falling back to the
// REST endpoint otherwise. On the socket path the message itself arrives
// later as a message_sent echo, so the returned message is nil.
func (h *Hub) Send(ctx context.Context, p facultypedia.SendMessageParams) (*facultypedia.ChatMessage, error) {
	if h.socket != nil && h.socket.Connected() {
		if err := h.socket.Emit(ctx, EventSendMessage, p); err == nil {
			messagesSent.WithLabelValues("socket").Inc()
			return nil, nil
		}
		h.logger.Warn().Msg("chat: socket send failed, falling back to rest")
	}

	msg, err := h.api.SendMessage(ctx, p)
	if err != nil {
		return nil, err
	}
	if msg.ConversationID == "" {
		msg.ConversationID = p.ConversationID
	}
	messagesSent.WithLabelValues("rest").Inc()
	h.ingest(msg)
	return &msg, nil
}

// MarkMessageRead flips a cached message to read optimistically and tells the
// backend.
func (h *Hub) MarkMessageRead(ctx context.Context, conversationID, messageID string) error {
	h.mu.Lock()
	if state, ok := h.states[conversationID]; ok {
		for i := range state.messages {
			if state.messages[i].ID == messageID && !state.messages[i].IsRead {
				state.messages[i].IsRead = true
				if state.unread > 0 {
					state.unread--
				}
				break
			}
		}
	}
	h.mu.Unlock()
	return h.api.MarkMessageRead(ctx, messageID)
}

// UnreadTotal is the unread count across all conversations. The backend's
// number wins when reachable, local state answers otherwise.
func (h *Hub) UnreadTotal(ctx context.Context) (int, error) {
	if n, err := h.api.UnreadCount(ctx); err == nil {
		return n, nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	total := 0
	for _, state := range h.states {
		total += state.unread
	}
	return total, nil
}

// Subscribe returns a channel of chat events for one dashboard connection and
// a cancel function. Slow subscribers drop events instead of blocking the
// socket read loop.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	id := h.nextSub
	h.nextSub++
	ch := make(chan Event, 32)
	h.subs[id] = ch
	return ch, func() {
		h.subMu.Lock()
		defer h.subMu.Unlock()
		if existing, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(existing)
		}
	}
}

// EnsureSocket redials the backend socket when it is down, typically after a
// session expiry closed it. Chat keeps working over REST when the dial fails,
// so the error is only logged.
func (h *Hub) EnsureSocket(ctx context.Context) {
	if h.socket == nil || h.socket.Connected() {
		return
	}
	if err := h.socket.Connect(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("chat: socket dial failed, staying on rest")
	}
}

// Reset drops all chat state. Wired to session expiry.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conversations = nil
	h.states = map[string]*conversationState{}
	h.activeID = ""
}

// ---------- internals ----------

func (h *Hub) ingest(msg facultypedia.ChatMessage) {
	if msg.ID == "" || msg.ConversationID == "" {
		return
	}
	h.mu.Lock()
	inbound := msg.Sender.UserType != "admin"
	active := h.activeID == msg.ConversationID

	// An inbound message to the conversation the admin has open is read the
	// moment it lands.
	if inbound && active && !msg.IsRead {
		now := time.Now()
		msg.IsRead = true
		msg.ReadAt = &now
	}

	state := h.stateLocked(msg.ConversationID)
	added := h.mergeLocked(state, msg)
	if added {
		if inbound && !active {
			state.unread++
		}
		for i := range h.conversations {
			if h.conversations[i].ID == msg.ConversationID {
				m := msg
				h.conversations[i].LastMessage = &m
				h.conversations[i].LastMessageAt = &m.CreatedAt
				h.conversations[i].UnreadCount = state.unread
				break
			}
		}
	}
	h.mu.Unlock()

	if added && inbound && active {
		if err := h.api.MarkMessageRead(context.Background(), msg.ID); err != nil {
			h.logger.Warn().Err(err).Str("message", msg.ID).Msg("chat: mark read failed")
		}
	}
}

func (h *Hub) stateLocked(id string) *conversationState {
	state, ok := h.states[id]
	if !ok {
		state = &conversationState{seen: map[string]struct{}{}}
		h.states[id] = state
	}
	return state
}

// mergeLocked inserts msg unless its ID is already present, keeping the slice
// sorted ascending by CreatedAt.
func (h *Hub) mergeLocked(state *conversationState, msg facultypedia.ChatMessage) bool {
	if _, ok := state.seen[msg.ID]; ok {
		return false
	}
	state.seen[msg.ID] = struct{}{}
	state.messages = append(state.messages, msg)
	slices.SortStableFunc(state.messages, func(a, b facultypedia.ChatMessage) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return true
}

func (h *Hub) broadcast(ev Event) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
