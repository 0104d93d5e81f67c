package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/auth"
	"github.com/mamadbah2/pantry-helper/internal/config"
	"github.com/mamadbah2/pantry-helper/internal/repository/mongodb"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/repository/sheets"
	"github.com/mamadbah2/pantry-helper/internal/scheduler"
	"github.com/mamadbah2/pantry-helper/internal/server/handlers"
	"github.com/mamadbah2/pantry-helper/internal/server/middleware"
	"github.com/mamadbah2/pantry-helper/internal/server/router"
	"github.com/mamadbah2/pantry-helper/internal/service/access"
	eventsvc "github.com/mamadbah2/pantry-helper/internal/service/events"
	financesvc "github.com/mamadbah2/pantry-helper/internal/service/finance"
	inventorysvc "github.com/mamadbah2/pantry-helper/internal/service/inventory"
	notifysvc "github.com/mamadbah2/pantry-helper/internal/service/notify"
	pantrysvc "github.com/mamadbah2/pantry-helper/internal/service/pantries"
	profilesvc "github.com/mamadbah2/pantry-helper/internal/service/profiles"
	recipesvc "github.com/mamadbah2/pantry-helper/internal/service/recipes"
	reportingsvc "github.com/mamadbah2/pantry-helper/internal/service/reporting"
	requestsvc "github.com/mamadbah2/pantry-helper/internal/service/requests"
	"github.com/mamadbah2/pantry-helper/pkg/clients/anthropic"
	"github.com/mamadbah2/pantry-helper/pkg/clients/mailer"
	"github.com/mamadbah2/pantry-helper/pkg/clients/mealdb"
	"github.com/mamadbah2/pantry-helper/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	store, err := mysql.Open(startCtx, cfg.Database, baseLogger.Named("repo.mysql"))
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close database", zap.Error(err))
		}
	}()
	if err := store.Migrate(startCtx); err != nil {
		baseLogger.Fatal("failed to migrate database", zap.Error(err))
	}

	checker := access.NewChecker(store, baseLogger.Named("svc.access"))
	tokens := auth.NewIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	var mail mailer.Client
	if cfg.Email.Enabled() {
		mail = mailer.NewClient(cfg.Email)
		baseLogger.Info("email delivery enabled")
	} else {
		baseLogger.Warn("email credentials missing, only in-app notifications will be sent")
	}

	var generator anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		generator = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, recipe generation disabled")
	}

	var ledger financesvc.Ledger
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(startCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = sheetsRepo
	}

	var archive reportingsvc.Archive
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(startCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, inventory snapshots disabled")
	}

	var locker scheduler.Locker
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
		})
		defer func() { _ = rdb.Close() }()
		locker = scheduler.NewRedisLocker(rdb)
	}

	notifySvc := notifysvc.NewService(store, mail, checker, cfg.Email.PantryInbox, baseLogger.Named("svc.notify"))
	inventorySvc := inventorysvc.NewService(store, checker, baseLogger.Named("svc.inventory"))
	requestSvc := requestsvc.NewService(store, checker, baseLogger.Named("svc.requests"))
	pantrySvc := pantrysvc.NewService(store, checker, baseLogger.Named("svc.pantries"))
	profileSvc := profilesvc.NewService(store, tokens, checker, baseLogger.Named("svc.profiles"))
	eventSvc := eventsvc.NewService(store, notifySvc, checker, baseLogger.Named("svc.events"))
	financeSvc := financesvc.NewService(store, ledger, checker, baseLogger.Named("svc.finance"))
	reportingSvc := reportingsvc.NewService(store, notifySvc, archive, checker, cfg.Reporting.ExpiryWindowDays, baseLogger.Named("svc.reporting"))
	recipeSvc := recipesvc.NewService(mealdb.NewClient(cfg.Recipes), generator, store, baseLogger.Named("svc.recipes"))

	handlerLogger := baseLogger.Named("handlers")
	engine := router.New(router.Handlers{
		Inventory:     handlers.NewInventoryHandler(inventorySvc, handlerLogger),
		Requests:      handlers.NewRequestHandler(requestSvc, handlerLogger),
		Pantries:      handlers.NewPantryHandler(pantrySvc, handlerLogger),
		Profiles:      handlers.NewProfileHandler(profileSvc, handlerLogger),
		Events:        handlers.NewEventHandler(eventSvc, handlerLogger),
		Finance:       handlers.NewFinanceHandler(financeSvc, handlerLogger),
		Notifications: handlers.NewNotificationHandler(notifySvc, handlerLogger),
		Reports:       handlers.NewReportHandler(reportingSvc, recipeSvc, handlerLogger),
	}, router.Options{
		Tokens:         tokens,
		Metrics:        middleware.NewMetrics(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Ready: func(c *gin.Context) error {
			return store.Ping(c.Request.Context())
		},
	}, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, locker, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
