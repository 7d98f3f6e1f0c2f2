package facultypedia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler, opts Options) (*Client, *session.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	sess := session.NewStore("", zerolog.Nop())
	return NewClient(srv.URL, sess, zerolog.Nop(), opts), sess
}

// ---------- request core ----------

func TestClient_UnwrapsEnvelopeAndSendsBearer(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"courses":[{"_id":"c1","title":"Algebra"}],"pagination":{"currentPage":1,"totalPages":1,"totalCourses":1}}}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	courses, pag, err := c.ListCourses(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-1", gotAuth)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].Key())
	assert.Equal(t, "Algebra", courses[0].Title)
	assert.Equal(t, 1, pag.Total)
}

func TestClient_UnenvelopedResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"students":[{"id":"s1","fullName":"Priya"}]}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	students, _, err := c.ListStudents(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Priya", students[0].FullName)
}

func TestClient_QueryParams(t *testing.T) {
	var gotQuery string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"educators":[]}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	_, _, err := c.ListEducators(context.Background(), ListParams{Page: 2, Limit: 20, Search: "ramesh iyer", Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, "limit=20&page=2&search=ramesh+iyer&status=active", gotQuery)
}

func TestClient_ErrorPayloadMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"month is required"}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	_, err := c.CalculatePayouts(context.Background(), 0, 0)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, "month is required", apiErr.Message)
}

func TestClient_UnauthorizedExpiresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("stale-token", "", nil)

	notified := false
	sess.OnExpired(func() { notified = true })

	_, _, err := c.ListCourses(context.Background(), ListParams{})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.False(t, sess.Authenticated())
	assert.True(t, notified)
}

func TestClient_Timeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	c, sess := newTestClient(t, handler, Options{Timeout: 20 * time.Millisecond})
	sess.SetSession("token-1", "", nil)

	_, _, err := c.ListCourses(context.Background(), ListParams{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, StatusTimeout, apiErr.Status)
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	sess := session.NewStore("", zerolog.Nop())
	sess.SetSession("token-1", "", nil)
	c := NewClient(srv.URL, sess, zerolog.Nop(), Options{})

	_, _, err := c.ListCourses(context.Background(), ListParams{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, StatusNetwork, apiErr.Status)
}

// ---------- auth ----------

func TestClient_LoginStoresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/admin-login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@facultypedia.com", body["email"])
		w.Write([]byte(`{"success":true,"data":{"accessToken":"at-1","refreshToken":"rt-1","admin":{"fullName":"Super Admin"}}}`))
	})
	c, sess := newTestClient(t, handler, Options{})

	require.NoError(t, c.Login(context.Background(), "admin@facultypedia.com", "secret"))
	assert.Equal(t, "at-1", sess.AccessToken())
	assert.Equal(t, "rt-1", sess.RefreshToken())
	assert.JSONEq(t, `{"fullName":"Super Admin"}`, string(sess.Profile()))
}

func TestClient_LoginMissingToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	})
	c, _ := newTestClient(t, handler, Options{})
	require.Error(t, c.Login(context.Background(), "a@b.c", "pw"))
}

func TestClient_LogoutClearsEvenOnBackendError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	require.NoError(t, c.Logout(context.Background()))
	assert.False(t, sess.Authenticated())
}

func TestClient_EnsureSessionAutoLogin(t *testing.T) {
	logins := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/admin-login":
			logins++
			w.Write([]byte(`{"data":{"accessToken":"auto-token"}}`))
		case "/api/admin/courses":
			assert.Equal(t, "Bearer auto-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"data":{"courses":[]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	c, _ := newTestClient(t, handler, Options{
		SuperAdminEmail:    "admin@facultypedia.com",
		SuperAdminPassword: "secret",
	})

	_, _, err := c.ListCourses(context.Background(), ListParams{})
	require.NoError(t, err)
	_, _, err = c.ListCourses(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, logins)
}

func TestClient_EnsureSessionNoCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler(), Options{})
	_, _, err := c.ListCourses(context.Background(), ListParams{})
	assert.True(t, IsUnauthorized(err))
}

// ---------- mutations ----------

func TestClient_UpdateEducatorStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/admin/educators/e1/status", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "inactive", body["status"])
		w.Write([]byte(`{"success":true}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	require.NoError(t, c.UpdateEducatorStatus(context.Background(), "e1", "inactive"))
}

func TestClient_UpdateStudentStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/students/s1/status", r.URL.Path)
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body["isActive"])
		w.Write([]byte(`{"success":true}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	require.NoError(t, c.UpdateStudentStatus(context.Background(), "s1", false))
}

// ---------- chat ----------

func TestClient_SendMessageShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare message", `{"data":{"_id":"m1","content":"hi","createdAt":"2026-08-30T10:00:00Z"}}`},
		{"wrapped message", `{"data":{"message":{"_id":"m1","content":"hi","createdAt":"2026-08-30T10:00:00Z"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/chat/messages", r.URL.Path)
				w.Write([]byte(tt.body))
			})
			c, sess := newTestClient(t, handler, Options{})
			sess.SetSession("token-1", "", nil)

			msg, err := c.SendMessage(context.Background(), SendMessageParams{
				ConversationID: "conv1", Content: "hi",
			})
			require.NoError(t, err)
			assert.Equal(t, "m1", msg.ID)
			assert.Equal(t, "hi", msg.Content)
		})
	}
}

func TestClient_UnreadCount(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat/unread-count", r.URL.Path)
		w.Write([]byte(`{"data":{"count":7}}`))
	})
	c, sess := newTestClient(t, handler, Options{})
	sess.SetSession("token-1", "", nil)

	n, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}
