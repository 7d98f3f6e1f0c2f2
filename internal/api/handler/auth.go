package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/middleware"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/request"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
)

// AuthClient is the slice of the backend client the auth handler needs.
type AuthClient interface {
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (json.RawMessage, error)
}

type Auth struct {
	client   AuthClient
	registry *middleware.TokenRegistry
}

func NewAuth(client AuthClient, registry *middleware.TokenRegistry) *Auth {
	return &Auth{client: client, registry: registry}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login signs the gateway in against the backend and hands the dashboard its
// own bearer token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.client.Login(r.Context(), req.Email, req.Password); err != nil {
		response.WriteAPIError(w, err)
		return
	}

	profile, err := h.client.Me(r.Context())
	if err != nil {
		// The login itself succeeded, serve it without a profile.
		profile = nil
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"token":   h.registry.Issue(),
		"profile": profile,
	})
}

// Logout invalidates both the dashboard token and the backend session.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.BearerToken(r); ok {
		h.registry.Revoke(token)
	}
	if err := h.client.Logout(r.Context()); err != nil {
		response.WriteAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the backend's current admin profile.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.client.Me(r.Context())
	if err != nil {
		response.WriteAPIError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, profile)
}
