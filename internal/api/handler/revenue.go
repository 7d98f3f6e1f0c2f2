package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
)

// RevenueClient is the slice of the backend client the revenue views need.
type RevenueClient interface {
	RevenueSummary(ctx context.Context, params url.Values) (json.RawMessage, error)
	RevenueByMonth(ctx context.Context, params url.Values) (json.RawMessage, error)
	RevenueByType(ctx context.Context, params url.Values) (json.RawMessage, error)
	RevenueTransactions(ctx context.Context, params url.Values) (json.RawMessage, error)
}

// Revenue proxies the backend's revenue aggregates through to the dashboard.
// The payloads are served as-is: the charts consume them directly and there
// is nothing to normalize.
type Revenue struct {
	client RevenueClient
}

func NewRevenue(client RevenueClient) *Revenue {
	return &Revenue{client: client}
}

func (h *Revenue) proxy(fetch func(context.Context, url.Values) (json.RawMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fetch(r.Context(), r.URL.Query())
		if err != nil {
			response.WriteAPIError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, data)
	}
}

func (h *Revenue) Summary(w http.ResponseWriter, r *http.Request) {
	h.proxy(h.client.RevenueSummary)(w, r)
}

func (h *Revenue) ByMonth(w http.ResponseWriter, r *http.Request) {
	h.proxy(h.client.RevenueByMonth)(w, r)
}

func (h *Revenue) ByType(w http.ResponseWriter, r *http.Request) {
	h.proxy(h.client.RevenueByType)(w, r)
}

func (h *Revenue) Transactions(w http.ResponseWriter, r *http.Request) {
	h.proxy(h.client.RevenueTransactions)(w, r)
}
