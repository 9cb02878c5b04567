package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/resalehq/pricing-engine/internal/config"
	"github.com/resalehq/pricing-engine/internal/database"
	"github.com/resalehq/pricing-engine/internal/handler"
	"github.com/resalehq/pricing-engine/internal/middleware"
	"github.com/resalehq/pricing-engine/internal/repository"
	"github.com/resalehq/pricing-engine/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		if err := database.SeedData(context.Background(), pool); err != nil {
			log.Fatal().Err(err).Msg("failed to seed data")
		}
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	setupAPIRoutes(router, pool, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupAPIRoutes(router *gin.Engine, pool *pgxpool.Pool, cfg *config.Config) {
	rateRepo := repository.NewRateRepository(pool)
	scheduleRepo := repository.NewScheduleRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	policyRepo := repository.NewPolicyRepository(pool)
	calcRepo := repository.NewCalculationRepository(pool)

	rateService := service.NewExchangeRateService(rateRepo, cfg.Rates)
	feeService := service.NewFeeService(scheduleRepo)
	dutyService := service.NewDutyService()
	policyService := service.NewPolicyService()
	pricingService := service.NewPricingService(
		rateService, feeService, dutyService, policyService,
		policyRepo, profileRepo, calcRepo, cfg.Fees, cfg.Locale)

	calcHandler := handler.NewCalculationHandler(pricingService, calcRepo)
	rateHandler := handler.NewRateHandler(rateService)
	scheduleHandler := handler.NewScheduleHandler(feeService)
	policyHandler := handler.NewPolicyHandler(policyRepo)
	profileHandler := handler.NewProfileHandler(profileRepo)

	api := router.Group("/api/v1")
	{
		api.POST("/calculations", calcHandler.Calculate)
		api.POST("/calculations/simulate", calcHandler.Simulate)
		api.GET("/calculations", calcHandler.History)
		api.GET("/exchange-rates", rateHandler.GetRate)
		api.GET("/fee-schedules", scheduleHandler.GetSchedule)
		api.GET("/policies", policyHandler.List)
		api.POST("/policies", policyHandler.Create)
		api.GET("/market-profiles", profileHandler.List)
	}
}
