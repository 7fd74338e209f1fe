// Command server boots the charging-station controller: it loads
// configuration, optionally seeds the simulation, starts the background
// tick worker, and serves the control API and live WebSocket push.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Stippler/drone-hustle/internal/api/handlers"
	"github.com/Stippler/drone-hustle/internal/api/middleware"
	"github.com/Stippler/drone-hustle/internal/config"
	"github.com/Stippler/drone-hustle/internal/metrics"
	"github.com/Stippler/drone-hustle/internal/simulation"
	"github.com/Stippler/drone-hustle/internal/ws"
)

func main() {
	_ = godotenv.Load() // optional; absence is not an error

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	metrics.Default()

	sim := simulation.New(simulation.Config{
		ResolutionSeconds:    cfg.ResolutionSeconds,
		SlotCount:            cfg.SlotCount,
		ChargerCount:         cfg.ChargerCount,
		SimulationTimeFactor: cfg.SimulationTimeFactor,
	}, logger)

	if cfg.SeedFile != "" {
		seedSimulation(sim, cfg.SeedFile, logger)
	}

	hub := ws.NewHub(logger)
	sim.Subscribe(ws.NewBridge(hub, logger))

	ctx, cancel := context.WithCancel(context.Background())
	sim.Start(ctx)

	router := newRouter(sim, hub, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server: listening", "addr", cfg.HTTPListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server: listen failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("server: shutting down")
	cancel()
	sim.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: graceful shutdown failed", "error", err)
	}
}

func newRouter(sim *simulation.Simulation, hub *ws.Hub, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	h := handlers.New(sim)

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", gin.WrapH(ws.NewHandler(hub, sim, logger)))

	router.POST("/battery", h.CreateBattery)
	router.DELETE("/batteries", h.ClearBatteries)
	router.GET("/batteries", h.ListBatteries)
	router.POST("/charge-request", h.ChargeRequest)
	router.PUT("/exchange", h.Exchange)
	router.PUT("/exchange-completed", h.ExchangeCompleted)
	router.PUT("/demand-estimation", h.SetDemand)
	router.PUT("/price-profile", h.SetPriceProfile)
	router.GET("/price-profile", h.GetPriceProfile)
	router.GET("/schedules", h.GetSchedules)
	router.GET("/visualisation", h.GetVisualisation)
	router.POST("/restart", h.Restart)

	return router
}

func seedSimulation(sim *simulation.Simulation, path string, logger *slog.Logger) {
	seed, err := config.LoadSeed(path)
	if err != nil {
		logger.Error("server: loading seed file", "error", err)
		return
	}
	for _, b := range seed.Batteries {
		if _, err := sim.CreateBattery(b.SOC, b.CapacityKWh, b.MaxPowerWatt); err != nil {
			logger.Error("server: seeding battery", "error", err)
		}
	}
	if len(seed.DemandEventSeconds) > 0 {
		sim.SetDemand(seed.DemandEventSeconds)
	}
	if len(seed.PriceEURPerMWh) > 0 {
		sim.SetPriceProfile(seed.PriceEURPerMWh, sim.ResolutionSeconds())
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
