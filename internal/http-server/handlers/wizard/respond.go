package wizard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"BeautyGenius/impl/core"
	"BeautyGenius/internal/lib/api/response"
	"BeautyGenius/internal/lib/sl"
	"BeautyGenius/internal/workflow"
)

func requestLogger(log *slog.Logger, r *http.Request) *slog.Logger {
	return log.With(
		sl.Module("http.handlers.wizard"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("workflow_id", chi.URLParam(r, "id")),
	)
}

// fail renders err with the status its kind maps to.
func fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal error"
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
		message = "Workflow not found"
	case errors.Is(err, core.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, core.ErrBadLink):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, core.ErrNotAllowed):
		status = http.StatusConflict
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", sl.Err(err))
	} else {
		logger.Debug("request rejected", slog.Int("status", status), sl.Err(err))
	}

	render.Status(r, status)
	render.JSON(w, r, response.Error(message))
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(message))
}

// snapshotHandler wraps an intent that only needs the workflow id.
func snapshotHandler(log *slog.Logger, fn func(id string) (workflow.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		snap, err := fn(chi.URLParam(r, "id"))
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(snap))
	}
}
