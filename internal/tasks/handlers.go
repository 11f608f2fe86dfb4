package tasks

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"
)

// Handler exposes the process endpoints.
type Handler struct {
	manager *Manager
	logger  zerolog.Logger
}

// NewHandler creates a new process handler
func NewHandler(manager *Manager, logger zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// RunRequest is the body of POST /process/run.
type RunRequest struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Response is the envelope of every process endpoint.
type Response struct {
	OK        bool   `json:"ok"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Routes mounts the handler under a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/run", h.Run)
	r.Get("/status/{taskID}", h.Status)
	return r
}

// Run handles POST /run.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.logger.Debug().Err(err).Msg("Failed to decode process request")
			h.fail(w, r, http.StatusBadRequest, "Cuerpo JSON inválido")
			return
		}
	}

	task, err := h.manager.Run(r.Context(), req.Name, req.Params)
	if err != nil {
		var te *TaskError
		if errors.As(err, &te) && te.Code == ErrTaskInvalidName {
			h.fail(w, r, http.StatusBadRequest, "Falta 'name' del proceso")
			return
		}
		h.logger.Error().
			Err(err).
			Str("error_code", errorCode(err)).
			Msg("Failed to run process")
		h.fail(w, r, http.StatusInternalServerError, "Error ejecutando el proceso")
		return
	}

	h.ok(w, r, map[string]string{"task_id": task.ID})
}

// Status handles GET /status/{taskID}.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	task, err := h.manager.Get(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		if errorCode(err) == ErrTaskNotFound {
			h.fail(w, r, http.StatusNotFound, "Task no encontrada")
			return
		}
		h.fail(w, r, http.StatusInternalServerError, "Error consultando la tarea")
		return
	}
	h.ok(w, r, task)
}

func (h *Handler) ok(w http.ResponseWriter, r *http.Request, data any) {
	render.JSON(w, r, Response{OK: true, Data: data, Timestamp: timestamp()})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Response{OK: false, Error: msg, Timestamp: timestamp()})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
