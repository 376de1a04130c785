package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/framegraph/pkg/buildinfo"
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/pipeline"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

// RunResponse describes a stored run.
type RunResponse struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Frames  int            `json:"frames"`
	DelayMS int64          `json:"delay_ms"`
	Stats   pipeline.Stats `json:"stats"`
	Player  string         `json:"player"`
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = scenario.FormatFromContentType(r.Header.Get("Content-Type"))
	}
	sc, err := pipeline.LoadScenario(pipeline.Input{Data: body, Format: format, Name: q.Get("name")})
	if err != nil {
		s.fail(w, err)
		return
	}

	opts := pipeline.Options{
		Layout:  s.cfg.Layout,
		Easing:  q.Get("easing"),
		Formats: []string{pipeline.FormatSVG},
	}
	if l := q.Get("layout"); l != "" {
		opts.Layout = l
	}
	if d := q.Get("delay"); d != "" {
		if opts.Delay, err = time.ParseDuration(d); err != nil {
			s.fail(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "delay"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()
	result, err := s.runner.Execute(ctx, sc, opts)
	if err != nil {
		s.fail(w, err)
		return
	}

	run := s.runs.Add(result)
	s.logger.Info("Stored run", "id", run.ID, "name", result.Name, "frames", len(result.Frames))
	writeJSON(w, http.StatusCreated, s.describe(run))
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run := s.lookup(w, r)
	if run == nil {
		return
	}
	writeJSON(w, http.StatusOK, s.describe(run))
}

func (s *Server) getFrame(w http.ResponseWriter, r *http.Request) {
	run := s.lookup(w, r)
	if run == nil {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > len(run.Result.Frames) {
		s.fail(w, errors.New(errors.ErrCodeNotFound, "frame %q not found", chi.URLParam(r, "n")))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(run.Result.Frames[n-1].SVG)
}

func (s *Server) player(w http.ResponseWriter, r *http.Request) {
	run := s.lookup(w, r)
	if run == nil {
		return
	}
	page, err := pipeline.Page(run.Result)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Runs   int    `json:"runs"`
		buildinfo.Info
	}{"ok", s.runs.Len(), buildinfo.Get()})
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *Run {
	id := chi.URLParam(r, "id")
	run := s.runs.Get(id)
	if run == nil {
		s.fail(w, errors.New(errors.ErrCodeNotFound, "run %q not found", id))
	}
	return run
}

func (s *Server) describe(run *Run) RunResponse {
	return RunResponse{
		ID:      run.ID,
		Name:    run.Result.Name,
		Frames:  len(run.Result.Frames),
		DelayMS: run.Result.Delay.Milliseconds(),
		Stats:   run.Result.Stats,
		Player:  "/runs/" + run.ID,
	}
}

// fail writes err as a JSON error with a status derived from its code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(err error) int {
	// A deadline hit inside the layout step arrives wrapped as LAYOUT_FAILED.
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidScenario, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidNode:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeLayout, errors.ErrCodeMalformedDocument, errors.ErrCodeUnsupportedFormat:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
