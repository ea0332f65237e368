package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerpay/walletd/internal/cache"
	"github.com/ledgerpay/walletd/internal/config"
	"github.com/ledgerpay/walletd/internal/ledger"
	"github.com/ledgerpay/walletd/internal/middleware"
	"github.com/ledgerpay/walletd/internal/notification"
	"github.com/ledgerpay/walletd/internal/user"
	"github.com/ledgerpay/walletd/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database the service falls back to in-memory backends, which keeps dev
// runs and handler tests self-contained.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
	}

	var userRepo user.Repository
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		userRepo = user.NewMemoryRepository()
	}

	var readCache *cache.Cache
	if d.Cache != nil {
		readCache = cache.New(d.Cache, d.Cfg.CacheTTL)
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	userSvc := user.NewService(userRepo)
	walletSvc := wallet.NewService(userRepo, ledgerBackend, readCache, notifier)

	userHandler := user.NewHandler(userSvc)
	walletHandler := wallet.NewHandler(walletSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterUserRoutes(api, userHandler)
	RegisterWalletRoutes(api, walletHandler)

	return nil
}
