package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/labstack/gommon/log"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/config"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/database"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/handler"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/middleware"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/queue"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/repository"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/router"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/service"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/utils"
)

func main() {
	cfg := config.Load() // Load environment config

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))

	db, err := database.Open(database.OptionsFrom(cfg))
	if err != nil {
		e.Logger.Fatalf("database: %v", err)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			e.Logger.Fatalf("database: %v", err)
		}
	}

	rl := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient()
	if rdb == nil {
		e.Logger.Warnf("redis unavailable; rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher = queue.NopPublisher{}
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, cfg.EventsQueue, e.Logger)
		defer pub.Close()
		events = pub
	} else {
		e.Logger.Infof("RABBITMQ_URL not set; activity events disabled")
	}

	codec := utils.NewTokenCodec(cfg.JWTSecret, cfg.AccessTTL)
	users := repository.NewUserRepo(db)
	router.Setup(e, router.Deps{
		Verifier:       codec,
		Limiter:        middleware.NewTokenBucket(rl, rdb),
		AllowedOrigins: cfg.AllowedOrigins,
		DB:             db,
		Auth:           handler.NewAuthHandler(service.NewAuthService(users, codec, cfg.BcryptCost)),
		Points:         handler.NewPointHandler(service.NewPointService(repository.NewPointRepo(db))),
		Materials:      handler.NewMaterialHandler(service.NewMaterialService(repository.NewMaterialRepo(db))),
		Logs:           handler.NewLogHandler(service.NewLogService(repository.NewLogRepo(db), events)),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	e.Logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Errorf("server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("shutdown: %v", err)
	}
}

func logLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
