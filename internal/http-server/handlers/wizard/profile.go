package wizard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"BeautyGenius/internal/lib/api/response"
	"BeautyGenius/internal/lib/sl"
	"BeautyGenius/internal/workflow"
)

type AgeRequest struct {
	Age *int `json:"age"`
}

type SkinTypeRequest struct {
	SkinType string `json:"skin_type"`
}

// SetAge stores the age from the body; out of range values are clamped.
func SetAge(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req AgeRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logger.Debug("decode age", sl.Err(err))
			badRequest(w, r, "Invalid request body")
			return
		}
		if req.Age == nil {
			badRequest(w, r, "age is required")
			return
		}

		snap, err := handler.SetAge(chi.URLParam(r, "id"), *req.Age)
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(snap))
	}
}

// AdjustAge returns a handler moving the age by delta.
func AdjustAge(log *slog.Logger, handler Core, delta int) http.HandlerFunc {
	return snapshotHandler(log, func(id string) (workflow.Snapshot, error) {
		return handler.AdjustAge(id, delta)
	})
}

func SetSkinType(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		var req SkinTypeRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logger.Debug("decode skin type", sl.Err(err))
			badRequest(w, r, "Invalid request body")
			return
		}

		snap, err := handler.SetSkinType(chi.URLParam(r, "id"), req.SkinType)
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		render.JSON(w, r, response.Ok(snap))
	}
}
