package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
)

type fakeOverviewClient struct {
	analyticsErr error
}

func (f *fakeOverviewClient) Analytics(ctx context.Context, params url.Values) (json.RawMessage, error) {
	if f.analyticsErr != nil {
		return nil, f.analyticsErr
	}
	return json.RawMessage(`{"totalEducators":12,"totalStudents":340}`), nil
}

func (f *fakeOverviewClient) RevenueSummary(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return json.RawMessage(`{"totalRevenue":185000}`), nil
}

type fakeUnread struct{ n int }

func (f *fakeUnread) UnreadTotal(ctx context.Context) (int, error) { return f.n, nil }

func TestOverview_Get(t *testing.T) {
	h := NewOverview(&fakeOverviewClient{}, &fakeUnread{n: 4})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest("GET", "/overview", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Analytics   json.RawMessage `json:"analytics"`
		Revenue     json.RawMessage `json:"revenue"`
		UnreadCount int             `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.JSONEq(t, `{"totalEducators":12,"totalStudents":340}`, string(resp.Analytics))
	assert.JSONEq(t, `{"totalRevenue":185000}`, string(resp.Revenue))
	assert.Equal(t, 4, resp.UnreadCount)
}

func TestOverview_BackendFailure(t *testing.T) {
	client := &fakeOverviewClient{analyticsErr: &facultypedia.APIError{Status: 0, Message: "connection refused"}}
	h := NewOverview(client, &fakeUnread{})

	rec := httptest.NewRecorder()
	h.Get(rec, httptest.NewRequest("GET", "/overview", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
