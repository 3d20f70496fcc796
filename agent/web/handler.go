// Package web serves the research form and its JSON API.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const maxBodyBytes = 1 << 20

var modeLabels = map[contractx.Mode]string{
	contractx.ModeSummarize:    "Summarize research text",
	contractx.ModeFactCheck:    "Fact-check a statement",
	contractx.ModeGenerateCode: "Generate code",
}

// Runner is the coordinator surface the handler needs.
type Runner interface {
	RunMode(ctx context.Context, user, query, rawMode string) contractx.Result
}

type Memory interface {
	Logs(ctx context.Context, user string) (session, longTerm []contractx.Record, err error)
	Reset(ctx context.Context) error
}

type Handler struct {
	runner Runner
	memory Memory
	mux    *http.ServeMux
}

func NewHandler(runner Runner, memory Memory) (*Handler, error) {
	if runner == nil {
		return nil, errors.New("runner is required")
	}
	if memory == nil {
		return nil, errors.New("memory is required")
	}

	h := &Handler{runner: runner, memory: memory, mux: http.NewServeMux()}
	h.mux.HandleFunc("GET /{$}", h.handleIndex)
	h.mux.HandleFunc("POST /{$}", h.handleSubmit)
	h.mux.HandleFunc("POST /api/run", h.handleAPIRun)
	h.mux.HandleFunc("GET /api/memory/{user}", h.handleAPIMemory)
	h.mux.HandleFunc("POST /api/memory/reset", h.handleAPIReset)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	log.Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", rec.status).
		Dur("elapsed", time.Since(start)).
		Msg("http request")
}

type modeOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	User       string
	Mode       string
	Query      string
	Modes      []modeOption
	Error      string
	Result     *contractx.Result
	ShowMemory bool
	Session    []contractx.Record
	LongTerm   []contractx.Record
}

func newPageData(sub Submission) pageData {
	modes := make([]modeOption, 0, len(modeLabels))
	for _, m := range contractx.Modes() {
		modes = append(modes, modeOption{
			Value:    m.String(),
			Label:    modeLabels[m],
			Selected: sub.Mode == m.String(),
		})
	}
	return pageData{User: sub.User, Mode: sub.Mode, Query: sub.Query, Modes: modes}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, newPageData(Submission{}))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		data := newPageData(Submission{})
		data.Error = "Could not read the form."
		h.render(w, http.StatusBadRequest, data)
		return
	}

	sub := Submission{
		User:  r.PostFormValue("user"),
		Mode:  r.PostFormValue("mode"),
		Query: r.PostFormValue("query"),
	}
	data := newPageData(sub)

	if err := sub.Validate(); err != nil {
		data.Error = err.Error()
		h.render(w, http.StatusUnprocessableEntity, data)
		return
	}

	sub = sub.normalized()
	res := h.runner.RunMode(r.Context(), sub.User, sub.Query, sub.Mode)
	data.Result = &res
	data.ShowMemory = true

	session, longTerm, err := h.memory.Logs(r.Context(), sub.User)
	if err != nil {
		log.Error().Err(err).Str("user", sub.User).Msg("read memory logs")
		data.Error = "Could not load memory logs."
	}
	data.Session, data.LongTerm = session, longTerm

	h.render(w, http.StatusOK, data)
}

type runResponse struct {
	Result         contractx.Result   `json:"result"`
	SessionMemory  []contractx.Record `json:"session_memory"`
	LongTermMemory []contractx.Record `json:"long_term_memory"`
}

type memoryResponse struct {
	User           string             `json:"user"`
	SessionMemory  []contractx.Record `json:"session_memory"`
	LongTermMemory []contractx.Record `json:"long_term_memory"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleAPIRun(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if err := sub.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	sub = sub.normalized()
	res := h.runner.RunMode(r.Context(), sub.User, sub.Query, sub.Mode)

	session, longTerm, err := h.memory.Logs(r.Context(), sub.User)
	if err != nil {
		log.Error().Err(err).Str("user", sub.User).Msg("read memory logs")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load memory logs"})
		return
	}

	writeJSON(w, http.StatusOK, runResponse{
		Result:         res,
		SessionMemory:  session,
		LongTermMemory: longTerm,
	})
}

func (h *Handler) handleAPIMemory(w http.ResponseWriter, r *http.Request) {
	user := r.PathValue("user")
	session, longTerm, err := h.memory.Logs(r.Context(), user)
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("read memory logs")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load memory logs"})
		return
	}
	writeJSON(w, http.StatusOK, memoryResponse{User: user, SessionMemory: session, LongTermMemory: longTerm})
}

func (h *Handler) handleAPIReset(w http.ResponseWriter, r *http.Request) {
	if err := h.memory.Reset(r.Context()); err != nil {
		log.Error().Err(err).Msg("reset memory")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not reset memory"})
		return
	}
	log.Info().Msg("memory reset")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("render index template")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode json response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Submission is one form or API request.
type Submission struct {
	User  string `json:"user"`
	Mode  string `json:"mode"`
	Query string `json:"query"`
}

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return contractx.ErrValidation }

// Validate checks the required fields in form order. An unknown mode token
// is not a validation error; the coordinator answers it.
func (s Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.User) == "":
		return &validationError{msg: "Please enter your name to track sessions!"}
	case strings.TrimSpace(s.Mode) == "":
		return &validationError{msg: "Please choose a mode."}
	case strings.TrimSpace(s.Query) == "":
		return &validationError{msg: "Please enter a query."}
	}
	return nil
}

// normalized trims the user and mode. The query is passed through verbatim.
func (s Submission) normalized() Submission {
	s.User = strings.TrimSpace(s.User)
	s.Mode = strings.TrimSpace(s.Mode)
	return s
}
