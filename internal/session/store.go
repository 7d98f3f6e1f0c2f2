// Package session holds the backend credentials the gateway acts with: the
// admin access/refresh tokens and the cached admin profile. The store is the
// gateway's stand-in for the browser's local storage, so persistence is best
// effort: a missing or unwritable state directory degrades to memory-only
// operation instead of failing.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const stateFile = "session.json"

type state struct {
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	Profile      json.RawMessage `json:"profile,omitempty"`
}

// Store is the single global admin session. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string // empty means memory-only
	logger  zerolog.Logger
	state   state
	expired Notifier
}

// NewStore creates a session store persisted under dir. An empty dir yields a
// memory-only store. A pre-existing state file is loaded so a restart keeps
// the admin signed in.
func NewStore(dir string, logger zerolog.Logger) *Store {
	s := &Store{logger: logger}
	if dir == "" {
		return s
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("session state dir unavailable, using memory only")
		return s
	}
	s.path = filepath.Join(dir, stateFile)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Msg("failed to read session state")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		logger.Warn().Err(err).Msg("failed to parse session state, starting fresh")
		s.state = state{}
	}
	return s
}

func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RefreshToken
}

// Profile returns the cached admin profile as raw JSON, or nil.
func (s *Store) Profile() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Profile
}

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken != ""
}

// SetSession persists all session fields at once, as returned by a login
// response. Empty arguments leave the corresponding field untouched.
func (s *Store) SetSession(accessToken, refreshToken string, profile json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if accessToken != "" {
		s.state.AccessToken = accessToken
	}
	if refreshToken != "" {
		s.state.RefreshToken = refreshToken
	}
	if profile != nil {
		s.state.Profile = profile
	}
	s.persistLocked()
}

// SetProfile updates only the cached profile.
func (s *Store) SetProfile(profile json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile = profile
	s.persistLocked()
}

// Clear removes all session state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state{}
	s.persistLocked()
}

// Expire clears the session and notifies auth-expired subscribers. The HTTP
// client calls this on any 401 so a stale token anywhere logs the whole
// gateway out.
func (s *Store) Expire() {
	s.Clear()
	s.expired.Notify()
}

// OnExpired registers fn to run whenever the session expires. The returned
// function unsubscribes.
func (s *Store) OnExpired(fn func()) func() {
	return s.expired.Subscribe(fn)
}

func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}
	data, err := json.Marshal(s.state)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode session state")
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Warn().Err(err).Msg("failed to write session state")
	}
}
