// Package web serves the HTTP API: login, balancete upload, dashboard
// data, de-para maintenance and report exports.
package web

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/balancete/internal/config"
	"github.com/cleared-dev/balancete/internal/pipeline"
	"github.com/cleared-dev/balancete/internal/report"
)

// Dashboard payloads are cached per query and dropped whenever an
// ingest or a reclassification changes the base.
const (
	cacheSize = 50
	cacheTTL  = 5 * time.Minute

	uploadsPerMinute = 10
)

// Server wires the ingest pipeline into HTTP handlers.
type Server struct {
	svc       *pipeline.Service
	converter *report.Converter
	env       config.Env
	log       *logrus.Logger
	validate  *validator.Validate
	cache     *expirable.LRU[string, any]
	companies *registry
}

// NewServer builds the API server around an ingest pipeline. A nil
// converter disables PDF export; the report endpoint then serves HTML.
func NewServer(svc *pipeline.Service, converter *report.Converter, env config.Env, log *logrus.Logger) *Server {
	if converter == nil {
		converter = report.NewConverter("")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cnpj", validCNPJ)

	company := svc.Config().Company
	return &Server{
		svc:       svc,
		converter: converter,
		env:       env,
		log:       log,
		validate:  v,
		cache:     expirable.NewLRU[string, any](cacheSize, nil, cacheTTL),
		companies: newRegistry(company.Name, company.CNPJ),
	}
}

// Router assembles the chi handler tree. Everything under /api except
// the login route sits behind the session middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", s.handleLogin)

		api.Group(func(api chi.Router) {
			api.Use(s.requireSession)

			api.Group(func(api chi.Router) {
				api.Use(httprate.Limit(
					uploadsPerMinute, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						problem(w, http.StatusTooManyRequests, "Limite de uploads excedido",
							"Aguarde um minuto antes de enviar outro balancete.")
					}),
				))
				api.Post("/upload", s.handleUpload)
			})
			api.Get("/upload/status", s.handleUploadStatus)

			api.Get("/data/dre", s.handleDRE)
			api.Get("/data/bp", s.handleBP)
			api.Get("/data/dfc", s.handleDFC)
			api.Get("/data/indicators", s.handleIndicators)
			api.Get("/data/summary", s.handleSummary)

			api.Get("/depara", s.handleDeparaList)
			api.Get("/depara/pending", s.handleDeparaPending)
			api.Put("/depara/{codigo}", s.handleDeparaUpdate)

			api.Get("/export/excel", s.handleExportExcel)
			api.Get("/export/report", s.handleExportReport)

			api.Get("/companies", s.handleCompanies)
			api.Post("/companies", s.handleCompanyCreate)
		})
	})

	return r
}

// corsOrigins allows the configured frontend, plus the dev server when
// the frontend runs somewhere else.
func (s *Server) corsOrigins() []string {
	var origins []string
	if s.env.FrontendURL != "" {
		origins = append(origins, s.env.FrontendURL)
	}
	if !strings.Contains(s.env.FrontendURL, "localhost") {
		origins = append(origins, "http://localhost:3000")
	}
	return origins
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request")
	})
}
