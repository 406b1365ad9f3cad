package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/secmon-lab/testgenie/pkg/usecase"
)

// DefaultMaxUploadSize bounds the multipart body of a document upload
const DefaultMaxUploadSize = 20 << 20

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	maxUploadSize int64
	version       string
}

type Options func(*Server)

func WithMaxUploadSize(size int64) Options {
	return func(s *Server) {
		s.maxUploadSize = size
	}
}

func WithVersion(version string) Options {
	return func(s *Server) {
		s.version = version
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:        r,
		uc:            uc,
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(httpMetrics)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/about", aboutHandler(s.version))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", createSessionHandler(uc.Session, s.maxUploadSize))
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", getSessionHandler(uc.Session))
				r.Delete("/", deleteSessionHandler(uc.Session))
				r.Get("/document", documentHandler(uc.Session))
				r.Post("/test-cases", generateTestCasesHandler(uc.Session))
				r.Put("/selection", selectHandler(uc.Session))
				r.Post("/test-steps", generateStepsHandler(uc.Session))
				r.Get("/export.csv", exportHandler(uc.Session))
			})
		})

		r.Post("/scenarios", scenarioHandler(uc.Scenario))

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/", submitFeedbackHandler(uc.Feedback))
			r.Get("/", listFeedbackHandler(uc.Feedback))
			r.Get("/{feedbackID}", getFeedbackHandler(uc.Feedback))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
