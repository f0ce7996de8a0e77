package wizard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"BeautyGenius/internal/lib/api/response"
)

// Open starts a new workflow.
func Open(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := handler.OpenWorkflow()
		requestLogger(log, r).With(slog.String("id", snap.ID)).Debug("workflow opened")

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, response.Ok(snap))
	}
}

func Get(log *slog.Logger, handler Core) http.HandlerFunc {
	return snapshotHandler(log, handler.Snapshot)
}

// Delete disposes the workflow.
func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if err := handler.CloseWorkflow(chi.URLParam(r, "id")); err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

// View renders the workflow with the theme from ?theme= or Accept-Language.
func View(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		view, err := handler.View(chi.URLParam(r, "id"), r.URL.Query().Get("theme"), r.Header.Get("Accept-Language"))
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(view))
	}
}
