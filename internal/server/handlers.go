package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/giftring/pkg/assign"
	"github.com/matzehuels/giftring/pkg/buildinfo"
	"github.com/matzehuels/giftring/pkg/cache"
	"github.com/matzehuels/giftring/pkg/errors"
	"github.com/matzehuels/giftring/pkg/pipeline"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if !s.decode(w, r, &opts) {
		return
	}
	opts.Logger = nil

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.storeReport(r.Context(), res.Report)
	writeJSON(w, http.StatusOK, res.Report)
}

// storeReport keeps the report so that GET /v1/draws/{id} can return it.
// Failures only cost the lookup, so they are logged and ignored.
func (s *Server) storeReport(ctx context.Context, rep assign.Report) {
	data, err := json.Marshal(rep)
	if err != nil {
		s.logger.Warn("encode report", "draw", rep.DrawID, "err", err)
		return
	}
	key := s.runner.Keyer.ReportKey(rep.DrawID)
	if err := s.runner.Cache.Set(ctx, key, data, cache.TTLReport); err != nil {
		s.logger.Warn("store report", "draw", rep.DrawID, "err", err)
	}
}

func (s *Server) handleGetDraw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "draw %q not found", id))
		return
	}
	data, hit, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.ReportKey(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !hit {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "draw %s not found", id))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req pipeline.CheckRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.runner.Check(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// decode reads a JSON body into v, answering 400 on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid request body"))
		return false
	}
	return true
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeInvalidFormat):
		return http.StatusBadRequest
	case errors.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	switch {
	case status == http.StatusGatewayTimeout:
		resp.Code = errors.ErrCodeTimeout
	case status == http.StatusInternalServerError:
		s.logger.Error("request failed",
			"route", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
			"err", err)
		resp = ErrorResponse{Code: errors.ErrCodeInternal, Message: "internal error"}
	case resp.Code == "":
		resp.Code = errors.ErrCodeInternal
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
