package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"BeautyGenius/bot"
	"BeautyGenius/impl/core"
	"BeautyGenius/internal/config"
	repository "BeautyGenius/internal/database"
	"BeautyGenius/internal/http-server/api"
	"BeautyGenius/internal/lib/fileurl"
	"BeautyGenius/internal/lib/logger"
	"BeautyGenius/internal/lib/sl"
	"BeautyGenius/internal/service/analysis"
	"BeautyGenius/internal/service/catalog"
	"BeautyGenius/internal/service/imagecheck"
	"BeautyGenius/internal/theme"
	"BeautyGenius/internal/workflow"
	"BeautyGenius/internal/ws"
)

const shutdownTimeout = 10 * time.Second

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	seed := flag.Bool("seed", false, "write the built-in products to mongo and exit")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", sl.Err(err))
		} else {
			lg = logger.SetupTelegramHandler(lg, tgBot, slog.LevelWarn)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")
		}
	}

	lg.Info("starting beauty genius", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)

	products := catalog.New(lg)
	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		products.SetRepository(db)
		handler.AddHealthCheck("mongo", db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	if *seed {
		if db == nil {
			lg.Error("seed requires mongo to be enabled")
			os.Exit(1)
		}
		n, err := db.UpsertProducts(ctx, catalog.Defaults())
		if err != nil {
			lg.Error("seed products", sl.Err(err))
			os.Exit(1)
		}
		lg.With(slog.Int("written", n)).Info("products seeded")
		return
	}

	switch conf.Analysis.Mode {
	case "http":
		handler.SetAnalyzer(analysis.NewHTTPAnalyzer(conf.Analysis.BaseURL, conf.Analysis.Timeout))
		lg.With(
			slog.String("url", conf.Analysis.BaseURL),
		).Info("http analyzer initialized")
	default:
		handler.SetAnalyzer(analysis.NewMockAnalyzer(nil, conf.Analysis.MinDelay, conf.Analysis.MaxDelay, time.Now().UnixNano()))
		lg.With(
			slog.Duration("min_delay", conf.Analysis.MinDelay),
			slog.Duration("max_delay", conf.Analysis.MaxDelay),
		).Info("mock analyzer initialized")
	}

	hub := ws.NewHub(lg)
	hub.SetHandler(handler)
	go hub.Run(ctx)

	handler.SetCatalog(products)
	handler.SetImageChecker(imagecheck.New(conf.Upload.MaxSizeMB))
	handler.SetPublisher(hub)
	linkSecret := conf.Upload.LinkSecret
	if linkSecret == "" {
		// links then stop working across restarts
		linkSecret = uuid.NewString()
		lg.Debug("image link secret generated")
	}
	handler.SetLinkSigner(fileurl.NewSigner(linkSecret, conf.Upload.LinkTTL))
	handler.SetDefaultTheme(conf.Workflow.DefaultTheme)
	handler.SetIdleTTL(*conf.Workflow.IdleTTL)
	handler.SetWorkflowOptions(workflow.Options{
		UploadTick:  conf.Workflow.UploadTick,
		AutoAdvance: *conf.Workflow.AutoAdvance,
	})
	if _, ok := theme.Lookup(conf.Workflow.DefaultTheme); !ok {
		lg.With(
			slog.String("theme", conf.Workflow.DefaultTheme),
			slog.Any("available", theme.Names()),
		).Warn("unknown default theme")
	}

	handler.Init(ctx)

	if tgBot != nil {
		tgBot.SetStats(handler)
		go func() {
			if err := tgBot.Start(); err != nil {
				lg.Error("telegram bot error", sl.Err(err))
			}
		}()
	}

	server := api.New(conf, lg, handler, hub)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("server shutdown", sl.Err(err))
		}
	}()

	// *** blocking start with http server ***
	err = server.Start()
	if err != nil {
		lg.Error("server start", sl.Err(err))
	}

	stop()
	handler.Shutdown()
	if tgBot != nil {
		tgBot.Stop()
	}
	lg.Info("service stopped", slog.Int("open_workflows", handler.OpenWorkflows()))
}
