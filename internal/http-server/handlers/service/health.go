package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"BeautyGenius/impl/core"
	"BeautyGenius/internal/lib/api/response"
)

type Service interface {
	Health(ctx context.Context) core.Health
}

// Health reports the open workflow count and dependency checks; 503 when
// a dependency is down.
func Health(_ *slog.Logger, handler Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := handler.Health(r.Context())
		if !h.Ok {
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Response{Data: h, Success: false, Message: "Unhealthy"})
			return
		}
		render.JSON(w, r, response.Ok(h))
	}
}
