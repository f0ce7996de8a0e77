package wizard

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"BeautyGenius/internal/lib/sl"
)

// Image serves the preview of an uploaded image behind a signed link, so
// it works from an <img> tag without the API key.
func Image(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		q := r.URL.Query()
		image, err := handler.Image(chi.URLParam(r, "id"), chi.URLParam(r, "imageId"), q.Get("expires"), q.Get("sig"))
		if err != nil {
			fail(w, r, logger, err)
			return
		}

		w.Header().Set("Content-Type", image.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.WriteHeader(http.StatusOK)
		if _, err = w.Write(image.Data); err != nil {
			logger.Debug("write image", sl.Err(err))
		}
	}
}
