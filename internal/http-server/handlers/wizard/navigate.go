package wizard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"BeautyGenius/internal/lib/api/response"
)

// Next moves forward; ?force=true skips the step gate.
func Next(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		force := false
		if v := r.URL.Query().Get("force"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				badRequest(w, r, "force must be a boolean")
				return
			}
			force = parsed
		}

		snap, err := handler.Next(chi.URLParam(r, "id"), force)
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(snap))
	}
}

func Back(log *slog.Logger, handler Core) http.HandlerFunc {
	return snapshotHandler(log, handler.Back)
}

func Reset(log *slog.Logger, handler Core) http.HandlerFunc {
	return snapshotHandler(log, handler.Reset)
}

// Retry discards the photo and its result and reopens the upload step.
func Retry(log *slog.Logger, handler Core) http.HandlerFunc {
	return snapshotHandler(log, handler.Retry)
}

// Close dismisses the workflow the way the wizard's close button does.
func Close(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		if err := handler.Close(chi.URLParam(r, "id")); err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(nil))
	}
}

func BeginAnalysis(log *slog.Logger, handler Core) http.HandlerFunc {
	return snapshotHandler(log, handler.BeginAnalysis)
}
