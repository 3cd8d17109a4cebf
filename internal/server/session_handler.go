// Package server exposes study sessions over JSON HTTP. It is a thin layer:
// all session logic lives in the session engine and the manager.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/at-ishikawa/gaku/internal/manager"
	"github.com/at-ishikawa/gaku/internal/question"
	"github.com/at-ishikawa/gaku/internal/session"
)

// SessionHandler serves one study session at a time. HTTP requests are
// serialized with a mutex because the session engine expects a single caller.
type SessionHandler struct {
	manager *manager.Manager

	mu     sync.Mutex
	engine *session.Engine
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(m *manager.Manager) *SessionHandler {
	return &SessionHandler{manager: m}
}

// Register mounts the session routes on the mux.
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/session/start", h.start)
	mux.HandleFunc("POST /api/session/next", h.next)
	mux.HandleFunc("POST /api/session/check", h.check)
	mux.HandleFunc("POST /api/session/answer", h.answer)
	mux.HandleFunc("POST /api/session/mark-correct", h.markCorrect)
	mux.HandleFunc("POST /api/session/mark-mistake", h.markMistake)
	mux.HandleFunc("POST /api/session/practice", h.practice)
	mux.HandleFunc("GET /api/session/status", h.status)
	mux.HandleFunc("GET /api/session/results", h.results)
	mux.HandleFunc("GET /api/forecast", h.forecast)
	mux.HandleFunc("GET /api/mistakes", h.mistakes)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("write response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNoCurrentQuestion),
		errors.Is(err, session.ErrQuestionMismatch),
		errors.Is(err, session.ErrAnswerMismatch),
		errors.Is(err, session.ErrNotFinished):
		status = http.StatusBadRequest
	case errors.Is(err, manager.ErrNoCards), errors.Is(err, errNoSession):
		status = http.StatusNotFound
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

var errNoSession = errors.New("no active session; start one first")

func (h *SessionHandler) withEngine(w http.ResponseWriter, f func(engine *session.Engine) error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.engine == nil {
		writeError(w, errNoSession)
		return
	}
	if err := f(h.engine); err != nil {
		writeError(w, err)
	}
}

type startRequest struct {
	Mode           string `json:"mode"`
	NumCards       int    `json:"num_cards"`
	ExtraQuestions bool   `json:"extra_questions"`
	Practice       bool   `json:"practice"`
}

func (h *SessionHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	engine, err := h.manager.StartSession(r.Context(), manager.StartOptions{
		Mode:           manager.Mode(req.Mode),
		NumCards:       req.NumCards,
		ExtraQuestions: req.ExtraQuestions,
		Practice:       req.Practice,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.engine = engine
	writeJSON(w, http.StatusOK, engine.Status())
}

func (h *SessionHandler) next(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, func(engine *session.Engine) error {
		next, err := engine.NextQuestion()
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, next)
		return nil
	})
}

type answerRequest struct {
	Answers question.Response `json:"answers"`
}

type answerResponse struct {
	Correct bool `json:"correct"`
}

func (h *SessionHandler) check(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.withEngine(w, func(engine *session.Engine) error {
		correct, err := engine.CheckAnswer(req.Answers)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, answerResponse{Correct: correct})
		return nil
	})
}

func (h *SessionHandler) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.withEngine(w, func(engine *session.Engine) error {
		correct, err := engine.AnswerQuestion(req.Answers)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, answerResponse{Correct: correct})
		return nil
	})
}

type markRequest struct {
	QuestionID string `json:"question_id"`
}

func (h *SessionHandler) markCorrect(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.withEngine(w, func(engine *session.Engine) error {
		if err := engine.MarkCorrect(req.QuestionID); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, engine.Status())
		return nil
	})
}

func (h *SessionHandler) markMistake(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.withEngine(w, func(engine *session.Engine) error {
		if err := engine.MarkMistake(req.QuestionID); err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, engine.Status())
		return nil
	})
}

type practiceRequest struct {
	FailedOnly bool `json:"failed_only"`
}

func (h *SessionHandler) practice(w http.ResponseWriter, r *http.Request) {
	var req practiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	h.withEngine(w, func(engine *session.Engine) error {
		var err error
		if req.FailedOnly {
			err = engine.PracticeFailedCards()
		} else {
			err = engine.PracticeAllCards()
		}
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, engine.Status())
		return nil
	})
}

func (h *SessionHandler) status(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, func(engine *session.Engine) error {
		writeJSON(w, http.StatusOK, engine.Status())
		return nil
	})
}

type resultsResponse struct {
	session.Results
	Finished bool `json:"finished"`
}

func (h *SessionHandler) results(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, func(engine *session.Engine) error {
		writeJSON(w, http.StatusOK, resultsResponse{
			Results:  engine.Results(),
			Finished: engine.IsFinished(),
		})
		return nil
	})
}

type forecastResponse struct {
	Days []int `json:"days"`
}

func (h *SessionHandler) forecast(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "days must be a positive integer"})
			return
		}
		days = parsed
	}

	forecast, err := h.manager.Forecast(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecastResponse{Days: forecast})
}

type mistakesResponse struct {
	CountsByDay map[int]int `json:"counts_by_day"`
}

func (h *SessionHandler) mistakes(w http.ResponseWriter, r *http.Request) {
	counts, err := h.manager.RecentMistakeCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mistakesResponse{CountsByDay: counts})
}
