package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/middleware"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

type fakeAuthClient struct {
	loginErr  error
	logoutErr error
	profile   json.RawMessage
	meErr     error
	logins    []string
}

func (f *fakeAuthClient) Login(ctx context.Context, email, password string) error {
	f.logins = append(f.logins, email)
	return f.loginErr
}

func (f *fakeAuthClient) Logout(ctx context.Context) error { return f.logoutErr }

func (f *fakeAuthClient) Me(ctx context.Context) (json.RawMessage, error) {
	return f.profile, f.meErr
}

func newRegistry(t *testing.T) *middleware.TokenRegistry {
	t.Helper()
	return middleware.NewTokenRegistry(session.NewStore("", zerolog.Nop()))
}

func TestAuth_Login(t *testing.T) {
	client := &fakeAuthClient{profile: json.RawMessage(`{"fullName":"Super Admin"}`)}
	registry := newRegistry(t)
	h := NewAuth(client, registry)

	body := `{"email":"admin@facultypedia.com","password":"secret"}`
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token   string          `json:"token"`
		Profile json.RawMessage `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.True(t, registry.Validate(resp.Token))
	assert.JSONEq(t, `{"fullName":"Super Admin"}`, string(resp.Profile))
	assert.Equal(t, []string{"admin@facultypedia.com"}, client.logins)
}

func TestAuth_LoginValidation(t *testing.T) {
	h := NewAuth(&fakeAuthClient{}, newRegistry(t))

	tests := []struct {
		name, body string
	}{
		{"bad json", `{`},
		{"missing password", `{"email":"a@b.c"}`},
		{"bad email", `{"email":"nope","password":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuth_LoginBackendRejection(t *testing.T) {
	client := &fakeAuthClient{loginErr: &facultypedia.APIError{Status: 401, Message: "wrong password"}}
	h := NewAuth(client, newRegistry(t))

	rec := httptest.NewRecorder()
	body := `{"email":"admin@facultypedia.com","password":"wrong"}`
	h.Login(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "wrong password")
}

func TestAuth_LoginUpstreamDown(t *testing.T) {
	client := &fakeAuthClient{loginErr: &facultypedia.APIError{Status: 0, Message: "connection refused"}}
	h := NewAuth(client, newRegistry(t))

	rec := httptest.NewRecorder()
	body := `{"email":"admin@facultypedia.com","password":"secret"}`
	h.Login(rec, httptest.NewRequest("POST", "/auth/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAuth_Logout(t *testing.T) {
	registry := newRegistry(t)
	token := registry.Issue()
	h := NewAuth(&fakeAuthClient{}, registry)

	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, registry.Validate(token))
}

func TestAuth_Me(t *testing.T) {
	client := &fakeAuthClient{profile: json.RawMessage(`{"email":"admin@facultypedia.com"}`)}
	h := NewAuth(client, newRegistry(t))

	rec := httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest("GET", "/auth/me", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"admin@facultypedia.com"}`, rec.Body.String())

	client.meErr = fmt.Errorf("boom")
	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest("GET", "/auth/me", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
