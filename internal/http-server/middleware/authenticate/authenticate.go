package authenticate

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"BeautyGenius/internal/lib/api/response"
	"BeautyGenius/internal/lib/sl"
)

// New logs every request and, when key is set, requires it as a bearer
// token, an X-API-Key header or a ?key= query parameter. Browsers cannot set
// headers on websocket handshakes, hence the query form.
func New(log *slog.Logger, key string) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod, slog.Bool("enabled", key != "")).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {

		fn := func(w http.ResponseWriter, r *http.Request) {
			id := middleware.GetReqID(r.Context())
			remote := r.RemoteAddr
			// if the request is coming from a proxy, use the X-Forwarded-For header
			xRemote := r.Header.Get("X-Forwarded-For")
			if xRemote != "" {
				remote = xRemote
			}
			logger := log.With(
				mod,
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", remote),
				slog.String("request_id", id),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			loggerPtr := &logger
			defer func() {
				(*loggerPtr).With(
					slog.Int("status", ww.Status()),
					slog.Int("size", ww.BytesWritten()),
					slog.Float64("duration", time.Since(t1).Seconds()),
				).Info("incoming request")
			}()

			if key != "" {
				token := requestToken(r)
				if token == "" {
					*loggerPtr = (*loggerPtr).With(sl.Err(fmt.Errorf("token not found")))
					authFailed(ww, r, "Token not found")
					return
				}
				*loggerPtr = (*loggerPtr).With(sl.Secret("token", token))

				if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
					*loggerPtr = (*loggerPtr).With(sl.Err(fmt.Errorf("token mismatch")))
					authFailed(ww, r, "Unauthorized")
					return
				}
			}

			ww.Header().Set("X-Request-ID", id)
			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

func requestToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if k := r.Header.Get("X-API-Key"); k != "" {
		return k
	}
	return r.URL.Query().Get("key")
}

func authFailed(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}
