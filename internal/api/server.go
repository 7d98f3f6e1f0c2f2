// Package api is the HTTP surface the admin dashboard talks to. It fronts
// the Facultypedia backend: list panels, revenue views, payouts and chat all
// live behind the gateway's own bearer tokens.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/handler"
	mw "github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/api/middleware"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/chat"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/config"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/facultypedia"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/panel"
	"github.com/jeevijay-developers/facultypedia-dashboard-SuperAdmin/internal/session"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	client   *facultypedia.Client
	sess     *session.Store
	registry *mw.TokenRegistry
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, cfg *config.Config, sess *session.Store, client *facultypedia.Client, hub *chat.Hub) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		client:   client,
		sess:     sess,
		registry: mw.NewTokenRegistry(sess),
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes(hub)

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes(hub *chat.Hub) {
	// Prometheus metrics
	s.router.Handle("/metrics", promhttp.Handler())

	// Health checks
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	auth := handler.NewAuth(s.client, s.registry)
	chatHandler := handler.NewChat(hub, s.registry, s.logger)

	panels := &handler.Panels{
		Educators:   panel.NewEducators(s.client, s.logger),
		Students:    panel.NewStudents(s.client, s.logger),
		Courses:     panel.NewCourses(s.client, s.logger),
		Tests:       panel.NewTests(s.client, s.logger),
		TestSeries:  panel.NewTestSeries(s.client, s.logger),
		Webinars:    panel.NewWebinars(s.client, s.logger),
		LiveClasses: panel.NewLiveClasses(s.client, s.logger),
	}

	s.router.Route("/api", func(r chi.Router) {
		// Login issues the bearer token, the websocket authenticates with a
		// token query parameter. Both stay outside the bearer middleware.
		r.Post("/auth/login", auth.Login)
		r.Get("/chat/ws", chatHandler.Connect)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(s.registry))

			r.Post("/auth/logout", auth.Logout)
			r.Get("/auth/me", auth.Me)

			overview := handler.NewOverview(s.client, hub)
			r.Get("/overview", overview.Get)

			panels.Routes(r)

			revenue := handler.NewRevenue(s.client)
			r.Get("/revenue/summary", revenue.Summary)
			r.Get("/revenue/by-month", revenue.ByMonth)
			r.Get("/revenue/by-type", revenue.ByType)
			r.Get("/revenue/transactions", revenue.Transactions)

			payouts := handler.NewPayouts(s.client)
			r.Get("/payouts", payouts.List)
			r.Post("/payouts/calculate", payouts.Calculate)
			r.Post("/payouts/pay", payouts.Pay)
			r.Get("/payments", payouts.Payments)

			r.Get("/chat/conversations", chatHandler.Conversations)
			r.Get("/chat/conversations/{id}/messages", chatHandler.Messages)
			r.Post("/chat/conversations/{id}/close", chatHandler.Close)
			r.Post("/chat/messages", chatHandler.Send)
			r.Put("/chat/messages/{id}/read", chatHandler.MarkMessageRead)
			r.Get("/chat/unread-count", chatHandler.UnreadCount)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleReadyz reports whether the backend API answers. The gateway is
// useless without it.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.BaseURL()+"/", nil)
	if err == nil {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			checks["backend"] = err.Error()
			healthy = false
		} else {
			resp.Body.Close()
			checks["backend"] = "ok"
		}
	}
	checks["session"] = "anonymous"
	if s.sess.Authenticated() {
		checks["session"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
