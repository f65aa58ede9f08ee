package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server owns the HTTP listener and route table.
type Server struct {
	srv *http.Server
	log *zerolog.Logger
}

// NewServer wires the route table. The webhook endpoint deliberately sits
// outside /api/v1 and outside the CORS/identity chain: it is called
// server-to-server by the payment provider and authenticated by signature.
func NewServer(addr string, h *Handler, allowedOrigins []string, jwtSecret string, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "HTTPServer").Logger()

	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(&l))
	r.Use(Recover(&l))
	r.Use(Timeout(30 * time.Second))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Post("/webhook/stripe", h.handleStripeWebhook)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(CORS(allowedOrigins))
		r.Use(Identity(jwtSecret))
		r.Post("/payment-intent", h.createPaymentIntent)
		r.Post("/subscription", h.createSubscription)
		r.Get("/entitlements", h.getEntitlements)
		r.Get("/artworks", h.listArtworks)
	})

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		log: &l,
	}
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.srv.Shutdown(ctx)
}
