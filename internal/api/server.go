// Package api exposes the session over HTTP for browser and script front ends.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Tiliavir/timeclock/internal/live"
	"github.com/Tiliavir/timeclock/internal/observability"
	"github.com/Tiliavir/timeclock/internal/session"
)

type ctxKey int

const requestIDKey ctxKey = 0

// Server holds the handlers' dependencies.
type Server struct {
	sess     *session.Session
	metrics  *observability.Metrics
	hub      *live.Hub
	log      *slog.Logger
	validate *validator.Validate
}

// NewServer wires a server. metrics and hub may be nil.
func NewServer(sess *session.Session, metrics *observability.Metrics, hub *live.Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		sess:     sess,
		metrics:  metrics,
		hub:      hub,
		log:      log,
		validate: validator.New(),
	}
	if hub != nil {
		sess.OnChange(hub.Notify)
	}
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID)

	handle := func(path string, h http.HandlerFunc) *mux.Route {
		return r.Handle(path, s.metrics.Instrument(path, h))
	}

	handle("/health", s.health).Methods(http.MethodGet)
	handle("/api/events", s.listEvents).Methods(http.MethodGet)
	handle("/api/events", s.postEvent).Methods(http.MethodPost)
	handle("/api/metrics", s.getMetrics).Methods(http.MethodGet)
	handle("/api/reset", s.reset).Methods(http.MethodPost)
	handle("/api/rollover", s.getRollover).Methods(http.MethodGet)
	handle("/api/rollover", s.postRollover).Methods(http.MethodPost)
	handle("/api/workday", s.getWorkday).Methods(http.MethodGet)
	handle("/api/workday", s.putWorkday).Methods(http.MethodPut)
	handle("/api/language", s.getLanguage).Methods(http.MethodGet)
	handle("/api/language", s.putLanguage).Methods(http.MethodPut)

	if s.hub != nil {
		r.Handle("/ws", s.hub).Methods(http.MethodGet)
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logger(r *http.Request) *slog.Logger {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return s.log.With("request_id", id)
	}
	return s.log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: msg})
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

var errBadBody = errors.New("invalid JSON body")
