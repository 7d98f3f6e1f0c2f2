package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
)

// OverviewClient is the slice of the backend client the overview needs.
type OverviewClient interface {
	Analytics(ctx context.Context, params url.Values) (json.RawMessage, error)
	RevenueSummary(ctx context.Context, params url.Values) (json.RawMessage, error)
}

// UnreadCounter answers the chat badge.
type UnreadCounter interface {
	UnreadTotal(ctx context.Context) (int, error)
}

// Overview serves the dashboard landing page: platform analytics, the
// revenue summary and the unread chat badge in one response.
type Overview struct {
	client OverviewClient
	chat   UnreadCounter
}

func NewOverview(client OverviewClient, chat UnreadCounter) *Overview {
	return &Overview{client: client, chat: chat}
}

func (h *Overview) Get(w http.ResponseWriter, r *http.Request) {
	var (
		analytics json.RawMessage
		revenue   json.RawMessage
		unread    int
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		analytics, err = h.client.Analytics(ctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = h.client.RevenueSummary(ctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = h.chat.UnreadTotal(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		response.WriteAPIError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"analytics":   analytics,
		"revenue":     revenue,
		"unreadCount": unread,
	})
}
