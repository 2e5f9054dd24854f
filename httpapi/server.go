// Package httpapi exposes the rules service over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nstehr/muster/muster-core/ipc"
	"github.com/nstehr/muster/muster-core/rules"
	"github.com/nstehr/muster/muster-core/service"
)

const maxRequestBodyBytes = 1 << 20

type Server struct {
	svc *service.Service
}

// NewRouter mounts every route on a chi router.
func NewRouter(svc *service.Service) http.Handler {
	s := &Server{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(otelhttp.NewMiddleware("musterd"))
	r.Use(limitRequestBody)

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/factions", s.listFactions)
		r.Get("/rules/{faction}", s.getRules)
		r.Get("/rules/{faction}/{variant}", s.getRules)
		r.Post("/validate", s.validate)
		r.Post("/rosters/validate", s.validateRoster)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "rulebookVersion": s.svc.Version()})
}

func (s *Server) listFactions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ipc.FactionsMessage{Factions: s.svc.Factions()})
}

// getRules serves the compiled rule set. The variant may be given as a path
// segment or as ?variant=.
func (s *Server) getRules(w http.ResponseWriter, r *http.Request) {
	req := ipc.CompileRequest{
		FactionID: chi.URLParam(r, "faction"),
		VariantID: chi.URLParam(r, "variant"),
	}
	if req.VariantID == "" {
		req.VariantID = r.URL.Query().Get("variant")
	}
	msg, err := s.svc.Rules(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req ipc.ValidateRequest
	if !decode(w, r, &req) {
		return
	}
	msg, err := s.svc.ValidateLoadout(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// validateRoster takes the roster itself as the request body.
func (s *Server) validateRoster(w http.ResponseWriter, r *http.Request) {
	var roster rules.Roster
	if !decode(w, r, &roster) {
		return
	}
	msg, err := s.svc.ValidateRoster(r.Context(), ipc.ValidateRosterRequest{Roster: roster})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func limitRequestBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Code: "too_large", Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Code: service.CodeBadRequest, Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var re *service.RequestError
	if errors.As(err, &re) {
		status := http.StatusBadRequest
		if re.Code() == service.CodeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, errorBody{Code: re.Code(), Error: err.Error()})
		return
	}
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internal", Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
