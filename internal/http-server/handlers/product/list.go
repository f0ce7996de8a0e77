package product

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"BeautyGenius/entity"
	"BeautyGenius/internal/lib/api/response"
	"BeautyGenius/internal/lib/sl"
)

// List returns the catalog, optionally narrowed to ?skin_type=.
func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.product"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var skinType entity.SkinType
		if v := r.URL.Query().Get("skin_type"); v != "" {
			st, err := entity.ParseSkinType(v)
			if err != nil {
				logger.Debug("bad skin type", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
				return
			}
			skinType = st
		}

		products, err := handler.Products(r.Context())
		if err != nil {
			logger.Error("list products", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Products not available"))
			return
		}

		if skinType != "" {
			filtered := make([]entity.Product, 0, len(products))
			for _, p := range products {
				if p.Suits(skinType) {
					filtered = append(filtered, p)
				}
			}
			products = filtered
		}

		logger.With(slog.Int("count", len(products))).Debug("products listed")
		render.JSON(w, r, response.Ok(products))
	}
}
