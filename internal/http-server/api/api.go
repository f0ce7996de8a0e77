package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"BeautyGenius/internal/config"
	handlerErrors "BeautyGenius/internal/http-server/handlers/errors"
	"BeautyGenius/internal/http-server/handlers/product"
	"BeautyGenius/internal/http-server/handlers/service"
	"BeautyGenius/internal/http-server/handlers/wizard"
	"BeautyGenius/internal/http-server/middleware/authenticate"
	"BeautyGenius/internal/http-server/middleware/timeout"
	"BeautyGenius/internal/lib/sl"
	"BeautyGenius/internal/ws"
)

const requestTimeout = 5

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	service.Service
	product.Core
	wizard.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  newRouter(conf, log, handler, hub),
		ErrorLog: httpLog,
	}
	return server
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func newRouter(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub) http.Handler {
	maxUpload := int64(conf.Upload.MaxSizeMB) << 20

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(handlerErrors.NotFound(log))
	router.MethodNotAllowed(handlerErrors.NotAllowed(log))

	// signed links carry their own authorization
	router.With(timeout.Timeout(requestTimeout)).
		Get("/files/workflows/{id}/images/{imageId}", wizard.Image(log, handler))

	// websocket streams outlive the request timeout, so only plain
	// requests get it
	bounded := func(r chi.Router) chi.Router {
		return r.With(
			timeout.Timeout(requestTimeout),
			render.SetContentType(render.ContentTypeJSON),
		)
	}

	router.Group(func(api chi.Router) {
		api.Use(authenticate.New(log, conf.Listen.ApiKey))
		api.Route("/api/v1", func(v1 chi.Router) {
			bounded(v1).Get("/health", service.Health(log, handler))
			bounded(v1).Get("/products", product.List(log, handler))

			v1.Route("/workflows", func(wf chi.Router) {
				bounded(wf).Post("/", wizard.Open(log, handler))

				wf.Route("/{id}", func(one chi.Router) {
					if hub != nil {
						one.Get("/ws", wizard.Stream(log, handler, hub))
					}

					r := bounded(one)
					r.Get("/", wizard.Get(log, handler))
					r.Delete("/", wizard.Delete(log, handler))
					r.Get("/view", wizard.View(log, handler))
					r.Post("/image", wizard.UploadImage(log, handler, maxUpload))
					r.Post("/age", wizard.SetAge(log, handler))
					r.Post("/age/inc", wizard.AdjustAge(log, handler, 1))
					r.Post("/age/dec", wizard.AdjustAge(log, handler, -1))
					r.Post("/skin-type", wizard.SetSkinType(log, handler))
					r.Post("/analysis", wizard.BeginAnalysis(log, handler))
					r.Post("/next", wizard.Next(log, handler))
					r.Post("/back", wizard.Back(log, handler))
					r.Post("/reset", wizard.Reset(log, handler))
					r.Post("/retry", wizard.Retry(log, handler))
					r.Post("/close", wizard.Close(log, handler))
				})
			})
		})
	})

	return router
}
