package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/response"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

// TokenRegistry holds the dashboard's own bearer tokens, issued at login.
// These are opaque UUIDs distinct from the backend JWT, which never leaves
// the gateway. All tokens die together when the backend session expires.
type TokenRegistry struct {
	mu     sync.Mutex
	tokens map[string]time.Time
}

func NewTokenRegistry(sess *session.Store) *TokenRegistry {
	r := &TokenRegistry{tokens: map[string]time.Time{}}
	sess.OnExpired(r.RevokeAll)
	return r
}

// Issue creates and remembers a new dashboard token.
func (r *TokenRegistry) Issue() string {
	token := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = time.Now()
	return token
}

// Validate reports whether token is live.
func (r *TokenRegistry) Validate(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token]
	return ok
}

func (r *TokenRegistry) Revoke(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, token)
}

func (r *TokenRegistry) RevokeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = map[string]time.Time{}
}

// Auth returns middleware that requires a valid dashboard bearer token.
func Auth(registry *TokenRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				response.WriteError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}
			if !registry.Validate(token) {
				response.WriteError(w, http.StatusUnauthorized, "session expired")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || token == "" {
		return "", false
	}
	return token, true
}
