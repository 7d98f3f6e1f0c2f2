package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/request"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/view"
)

// PayoutClient is the slice of the backend client the payout views need.
type PayoutClient interface {
	ListPayouts(ctx context.Context, params url.Values) ([]facultypedia.RawPayout, int, error)
	CalculatePayouts(ctx context.Context, month, year int) (json.RawMessage, error)
	ProcessPayout(ctx context.Context, payoutID string) error
	ProcessPayouts(ctx context.Context, payoutIDs []string) error
	ListPayments(ctx context.Context, params url.Values) ([]facultypedia.RawPayment, facultypedia.Pagination, error)
}

// Payouts handles educator payout management and the payment ledger.
type Payouts struct {
	client PayoutClient
}

func NewPayouts(client PayoutClient) *Payouts {
	return &Payouts{client: client}
}

// parsePeriod reads and validates month/year query parameters, defaulting to
// the current month.
func parsePeriod(r *http.Request, now time.Time) (month, year int, err error) {
	month, year = int(now.Month()), now.Year()
	if s := r.URL.Query().Get("month"); s != "" {
		month, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month %q", s)
		}
	}
	if s := r.URL.Query().Get("year"); s != "" {
		year, err = strconv.Atoi(s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", s)
		}
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("year %d out of range", year)
	}
	return month, year, nil
}

// List returns the payouts of one billing period.
func (h *Payouts) List(w http.ResponseWriter, r *http.Request) {
	month, year, err := parsePeriod(r, time.Now())
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := url.Values{}
	params.Set("month", strconv.Itoa(month))
	params.Set("year", strconv.Itoa(year))
	raws, count, err := h.client.ListPayouts(r.Context(), params)
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}

	payouts := make([]view.Payout, 0, len(raws))
	for _, raw := range raws {
		if p, ok := view.NormalizePayout(raw); ok {
			payouts = append(payouts, p)
		}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"payouts": payouts,
		"count":   count,
		"month":   month,
		"year":    year,
	})
}

type calculateRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
}

// Calculate asks the backend to compute payouts for a period.
func (h *Payouts) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.client.CalculatePayouts(r.Context(), req.Month, req.Year)
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, result)
}

type payRequest struct {
	PayoutID  string   `json:"payoutId"`
	PayoutIDs []string `json:"payoutIds"`
}

// Pay marks one payout, or a batch, as paid.
func (h *Payouts) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var err error
	switch {
	case req.PayoutID != "":
		err = h.client.ProcessPayout(r.Context(), req.PayoutID)
	case len(req.PayoutIDs) > 0:
		err = h.client.ProcessPayouts(r.Context(), req.PayoutIDs)
	default:
		response.WriteError(w, http.StatusBadRequest, "payoutId or payoutIds required")
		return
	}
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}

// Payments serves the raw payment ledger, normalized for display.
func (h *Payouts) Payments(w http.ResponseWriter, r *http.Request) {
	page, limit := request.ParsePage(r)
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	for _, key := range []string{"status", "productType", "search"} {
		if v := r.URL.Query().Get(key); v != "" {
			params.Set(key, v)
		}
	}

	raws, pagination, err := h.client.ListPayments(r.Context(), params)
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	payments := make([]view.Payment, 0, len(raws))
	for _, raw := range raws {
		if p, ok := view.NormalizePayment(raw); ok {
			payments = append(payments, p)
		}
	}
	response.WritePaginated(w, http.StatusOK, payments, pagination)
}
