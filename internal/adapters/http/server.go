package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/estimator"
	"github.com/junlennon0516/DongSeo-WebProject/internal/services/extraction"
)

const (
	maxBodyBytes        = 1 << 20
	maxRawBytes         = 2048
	defaultCatalogLimit = 20
)

// Pinger reports store liveness for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	estimator ports.Estimator
	catalog   ports.Catalog
	health    Pinger
	metrics   http.Handler
	log       *zap.Logger
}

// New builds the HTTP surface. health and metrics may be nil.
func New(est ports.Estimator, catalog ports.Catalog, health Pinger, metrics http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{estimator: est, catalog: catalog, health: health, metrics: metrics, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.getHealthz)
	r.Post("/analyze", s.postAnalyze)
	r.Post("/chat", s.postChat)
	r.Get("/catalog", s.getCatalog)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) getHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			// Retrieval degrades without the store, so this stays 200.
			writeJSON(w, http.StatusOK, map[string]string{"status": "degraded", "catalog": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	order, err := s.estimator.Analyze(r.Context(), req.Text)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(order))
}

func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	msg, err := s.estimator.Chat(r.Context(), req.toPort())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatMessageJSON{Role: string(msg.Role), Content: msg.Content})
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	var (
		q     string
		limit = defaultCatalogLimit
	)
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if limit <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "limit must be positive")
		return
	}
	entries, err := s.catalog.Entries(r.Context(), q, limit)
	if err != nil {
		s.log.Warn("catalog listing failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", err.Error())
		return
	}
	out := make([]catalogEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toCatalogEntryJSON(e))
	}
	writeJSON(w, http.StatusOK, catalogResponse{Items: out})
}

// fail maps service errors onto status codes. Extraction failures are the
// upstream generator's fault and surface as 502.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var xerr *extraction.Error
	switch {
	case errors.As(err, &xerr):
		resp := errorResponse{Error: string(xerr.Kind), Detail: xerr.Error()}
		if xerr.Err != nil {
			resp.Detail = xerr.Err.Error()
		}
		if xerr.Kind == extraction.KindMalformedOutput || xerr.Kind == extraction.KindSchemaViolation {
			resp.Raw = xerr.RawSnippet(maxRawBytes)
		}
		writeJSON(w, http.StatusBadGateway, resp)
	case errors.Is(err, estimator.ErrEmptyText), errors.Is(err, estimator.ErrEmptyConversation):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, detail string) {
	writeJSON(w, status, errorResponse{Error: kind, Detail: detail})
}
