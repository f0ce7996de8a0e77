package wizard

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"BeautyGenius/internal/lib/api/response"
	"BeautyGenius/internal/lib/sl"
)

const (
	uploadField     = "file"
	multipartMemory = 8 << 20
)

// UploadImage reads the multipart "file" field and starts its upload. Files
// over maxSize are cut at maxSize+1 bytes so validation rejects them.
func UploadImage(log *slog.Logger, handler Core, maxSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := requestLogger(log, r)

		// room for the multipart envelope around an oversized file
		r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				render.Status(r, http.StatusRequestEntityTooLarge)
				render.JSON(w, r, response.Error("Request too large"))
				return
			}
			logger.Debug("parse multipart", sl.Err(err))
			badRequest(w, r, "Invalid multipart form")
			return
		}

		file, header, err := r.FormFile(uploadField)
		if err != nil {
			badRequest(w, r, "File field \""+uploadField+"\" is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
		if err != nil {
			logger.Error("read upload", sl.Err(err))
			badRequest(w, r, "Failed to read file")
			return
		}

		logger = logger.With(
			slog.String("file", header.Filename),
			slog.Int("size", len(data)),
		)

		snap, err := handler.UploadImage(chi.URLParam(r, "id"), header.Filename, data)
		if err != nil {
			fail(w, r, logger, err)
			return
		}
		logger.Debug("upload started")
		render.JSON(w, r, response.Ok(snap))
	}
}
