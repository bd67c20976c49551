package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ateliermarket/boutique/internal/config"
	"github.com/ateliermarket/boutique/internal/es"
	"github.com/ateliermarket/boutique/internal/handlers"
	"github.com/ateliermarket/boutique/internal/logging"
	"github.com/ateliermarket/boutique/internal/mykafka"
	"github.com/ateliermarket/boutique/internal/service/catalog"
	"github.com/ateliermarket/boutique/internal/service/dashboard"
	"github.com/ateliermarket/boutique/internal/service/order"
	"github.com/ateliermarket/boutique/internal/service/revenue"
	"github.com/ateliermarket/boutique/internal/service/token"
	httpserver "github.com/ateliermarket/boutique/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init failed: %v", err)
	}

	nodeID, err := strconv.ParseInt(configuration.NODE_ID, 10, 64)
	if err != nil {
		log.Fatalf("invalid NODE_ID: %v", err)
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		log.Fatalf("snowflake init failed: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatalf("kafka init failed: %v", err)
		}
	} else {
		logger.Warn("kafka disabled, KAFKA_ADDRESS not set")
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("elasticsearch disabled", "error", err)
		esClient = nil
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	catalogSvc := catalog.NewService(db, esClient, configuration.ES_INDEX)
	orderSvc := order.NewService(db, node)
	revenueSvc := revenue.NewService(db)
	dashboardSvc := dashboard.NewService(db)
	tokenSvc := &token.Service{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logger.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			ctx := logging.IntoContext(c.Request().Context(), l)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		AuthHandler:      &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:   &handlers.ProductHandler{Svc: catalogSvc, Producer: prod},
		CartHandler:      &handlers.CartHandler{DB: db, Producer: prod},
		WishlistHandler:  &handlers.WishlistHandler{DB: db, Producer: prod},
		OrderHandler:     &handlers.OrderHandler{Svc: orderSvc, Producer: prod},
		RevenueHandler:   &handlers.RevenueHandler{Svc: revenueSvc, Producer: prod},
		DashboardHandler: &handlers.DashboardHandler{Svc: dashboardSvc},
		DirectoryHandler: &handlers.DirectoryHandler{DB: db},
		TokenService:     tokenSvc,
	}
	if esClient != nil {
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: configuration.ES_INDEX}
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
