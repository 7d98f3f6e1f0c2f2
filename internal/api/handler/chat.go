package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/middleware"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/request"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/chat"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
)

// Chat exposes the chat hub to the dashboard, over REST and over a websocket
// that pushes live events.
type Chat struct {
	hub      *chat.Hub
	registry *middleware.TokenRegistry
	logger   zerolog.Logger
}

func NewChat(hub *chat.Hub, registry *middleware.TokenRegistry, logger zerolog.Logger) *Chat {
	return &Chat{hub: hub, registry: registry, logger: logger}
}

func (h *Chat) Conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.hub.Conversations(r.Context())
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

// Messages opens a conversation: it loads history, marks it read and makes it
// the active one so incoming messages stop counting as unread.
func (h *Chat) Messages(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, limit := request.ParsePage(r)

	messages, pagination, err := h.hub.OpenConversation(r.Context(), id, page, limit)
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"messages":   messages,
		"pagination": pagination,
	})
}

// Close deactivates a conversation.
func (h *Chat) Close(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.hub.CloseConversation(id)
	w.WriteHeader(http.StatusNoContent)
}

type sendRequest struct {
	ConversationID string   `json:"conversationId" validate:"required"`
	ReceiverID     string   `json:"receiverId"`
	ReceiverType   string   `json:"receiverType"`
	Content        string   `json:"content" validate:"required"`
	Attachments    []string `json:"attachments"`
}

func (h *Chat) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.hub.Send(r.Context(), facultypedia.SendMessageParams{
		ConversationID: req.ConversationID,
		ReceiverID:     req.ReceiverID,
		ReceiverType:   req.ReceiverType,
		Content:        req.Content,
		Attachments:    req.Attachments,
	})
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	if msg == nil {
		// Socket path: the message arrives back as a message_sent event.
		response.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
		return
	}
	response.WriteJSON(w, http.StatusCreated, msg)
}

func (h *Chat) MarkMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	conversationID := r.URL.Query().Get("conversationId")
	if err := h.hub.MarkMessageRead(r.Context(), conversationID, id); err != nil {
		response.WriteAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Chat) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.hub.UnreadTotal(r.Context())
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Connect upgrades the dashboard connection to a websocket and relays chat
// events to it. Authentication uses a token query parameter because browsers
// cannot set headers on websocket dials. Inbound frames of the form
// {"event":"send_message","data":{...}} are forwarded into the hub.
func (h *Chat) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" || !h.registry.Validate(token) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	// The dashboard opening its socket is the moment to get the backend one
	// back up if a session expiry tore it down.
	h.hub.EnsureSocket(r.Context())

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return // Accept already wrote the HTTP error
	}
	defer conn.CloseNow()

	events, cancelSub := h.hub.Subscribe()
	defer cancelSub()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// hub → dashboard
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
					return
				}
			}
		}
	}()

	// dashboard → hub
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var frame struct {
			Event string                         `json:"event"`
			Data  facultypedia.SendMessageParams `json:"data"`
		}
		if err := json.Unmarshal(data, &frame); err != nil || frame.Event != chat.EventSendMessage {
			continue
		}
		if _, err := h.hub.Send(ctx, frame.Data); err != nil {
			h.logger.Warn().Err(err).Msg("chat relay: send failed")
		}
	}
}
