package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/chat"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/config"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

// fakeBackend imitates the Facultypedia API for end to end routing tests.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/admin-login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":{"accessToken":"backend-at","refreshToken":"backend-rt","admin":{"fullName":"Super Admin"}}}`))
	})
	mux.HandleFunc("/api/auth/admin/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Write([]byte(`{"data":{"fullName":"Super Admin"}}`))
	})
	mux.HandleFunc("/api/admin/courses", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		require.Equal(t, "Bearer backend-at", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"courses":[{"_id":"c1","title":"Algebra","fees":"1200","subject":["Math","Algebra"],"enrolledStudents":[1,2,3]}],"pagination":{"currentPage":1,"totalPages":1,"totalCourses":1}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	backend := fakeBackend(t)

	cfg := &config.Config{
		HTTPListenAddr: ":0",
		BackendAPIURL:  backend.URL,
		CORSOrigins:    []string{"http://localhost:3000"},
	}
	sess := session.NewStore("", zerolog.Nop())
	client := facultypedia.NewClient(backend.URL, sess, zerolog.Nop(), facultypedia.Options{})
	hub := chat.NewHub(client, nil, zerolog.Nop())
	return NewServer(zerolog.Nop(), cfg, sess, client, hub)
}

func login(t *testing.T, srv *Server) string {
	t.Helper()
	rec := httptest.NewRecorder()
	body := `{"email":"admin@facultypedia.com","password":"secret"}`
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/courses", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_LoginAndListCourses(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	req := httptest.NewRequest("GET", "/api/courses", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rows []struct {
			ID           string  `json:"id"`
			Title        string  `json:"title"`
			Subject      string  `json:"subject"`
			Enrolled     int     `json:"enrolled"`
			Fees         float64 `json:"fees"`
			Status       string  `json:"status"`
			EducatorName string  `json:"educatorName"`
		} `json:"rows"`
		FacetOptions []string `json:"facetOptions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	assert.Equal(t, "c1", row.ID)
	assert.Equal(t, "Algebra", row.Title)
	assert.Equal(t, "Math, Algebra", row.Subject)
	assert.Equal(t, 3, row.Enrolled)
	assert.Equal(t, 1200.0, row.Fees)
	assert.Equal(t, "active", row.Status)
	assert.Equal(t, "Unknown", row.EducatorName)
	assert.Equal(t, []string{"Algebra", "Math"}, resp.FacetOptions)
}

func TestServer_CourseFacetFilter(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv)

	get := func(path string) int {
		req := httptest.NewRequest("GET", path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Rows []json.RawMessage `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return len(resp.Rows)
	}

	assert.Equal(t, 1, get("/api/courses?subject=Math"))
	assert.Equal(t, 0, get("/api/courses?subject=Biology"))
	assert.Equal(t, 1, get("/api/courses?minFee=1000"))
	assert.Equal(t, 0, get("/api/courses?minFee=5000"))
}

func TestServer_BadLoginRejected(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	body := `{"email":"admin@facultypedia.com","password":"wrong"}`
	srv.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest("OPTIONS", "/api/courses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
