package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"loscarnales.mx/storefront/internal/config"
	apphttp "loscarnales.mx/storefront/internal/http"
	"loscarnales.mx/storefront/internal/http/cartcookie"
	"loscarnales.mx/storefront/internal/http/flash"
	"loscarnales.mx/storefront/internal/http/handlers"
	"loscarnales.mx/storefront/internal/http/middleware"
	"loscarnales.mx/storefront/internal/modules/cart"
	"loscarnales.mx/storefront/internal/modules/collections"
	"loscarnales.mx/storefront/internal/modules/newsletter"
	"loscarnales.mx/storefront/internal/modules/products"
	"loscarnales.mx/storefront/internal/modules/variants"
	"loscarnales.mx/storefront/internal/storage"
)

const badgeCacheSize = 10000

func main() {
	// .env is optional; production uses real env vars.
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	db, err := gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("database handle: %v", err)
	}

	catalogSvc := products.NewService(products.NewGormRepo(db), logger, cfg.Currency)
	collectionRepo := collections.NewRepo(db)
	resolver, err := variants.NewCached(variants.New(), cfg.ResolverCacheSize)
	if err != nil {
		log.Fatalf("resolver cache: %v", err)
	}

	store := cart.NewStore(cart.NewRepo(db), cfg.Currency, logger)
	badges, err := middleware.NewBadgeCounts(store, badgeCacheSize, logger)
	if err != nil {
		log.Fatalf("badge cache: %v", err)
	}
	store.Subscribe(badges.Listener())
	store.Subscribe(cart.AuditLogger(logger))

	flashCodec := flash.NewCodec(cfg.CookieSecret, cfg.FlashCookieName, cfg.CookieSecure)
	cartCodec := cartcookie.New(cfg.CookieSecret, cfg.CartCookieName, cfg.CookieSecure)

	deps := apphttp.Deps{
		Log:        logger,
		Flash:      flashCodec,
		CartCookie: cartCodec,
		Badges:     badges,
		Index: &handlers.IndexHandler{
			Products:    catalogSvc,
			Collections: collectionRepo,
			Resolver:    resolver,
			Timeout:     cfg.CatalogTimeout,
			Log:         logger,
		},
		Products: handlers.NewProductsHandler(catalogSvc, resolver),
		Cart: &handlers.CartHandler{
			Store:    store,
			Products: catalogSvc,
			Resolver: resolver,
			Badges:   badges,
			Flash:    flashCodec,
			CK:       cartCodec,
			Log:      logger,
		},
		Newsletter: &handlers.NewsletterHandler{
			Subscribers: newsletter.NewService(newsletter.NewRepo(db)),
			Flash:       flashCodec,
		},
		DB:        sqlDB,
		StaticDir: "./static",
	}
	if sc := storage.ConfigFromEnv(); sc.ServesLocally() {
		deps.UploadsDir = sc.LocalDir
		deps.UploadsURL = sc.LocalURLPrefix
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           apphttp.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", slog.Any("err", err))
			os.Exit(1)
		}
	}()
	logger.Info("server_started", slog.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server_stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_forced_shutdown", slog.Any("err", err))
	}
	_ = sqlDB.Close()
	logger.Info("server_exited")
}
