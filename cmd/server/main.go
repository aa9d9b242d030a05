package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/orgboard/internal/handlers"
	"github.com/alimgiray/orgboard/internal/middleware"
	"github.com/alimgiray/orgboard/internal/repositories"
	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/internal/workers"
	"github.com/alimgiray/orgboard/pkg/config"
	"github.com/alimgiray/orgboard/pkg/database"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/alimgiray/orgboard/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.AppConfig
	gin.SetMode(cfg.Server.Mode)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		logger.Warnf("SESSION_SECRET is not set, filter cookies are signed with %q", config.DefaultSessionSecret)
	}

	if cfg.GitHub.Org == "" {
		logger.Fatalf("GITHUB_ORG must be set")
	}

	// Initialize database
	if err := database.Init(cfg.Database.Path); err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// GitHub access
	tracker := services.NewRateLimitTracker()
	headers := services.RateLimitHeaders{
		Remaining: cfg.GitHub.RemainingHeader,
		Reset:     cfg.GitHub.ResetHeader,
		Limit:     cfg.GitHub.LimitHeader,
	}
	githubService, err := services.NewGitHubService(cfg.GitHub.APIURL, &http.Client{Timeout: 30 * time.Second}, tracker, headers, collector)
	if err != nil {
		logger.Fatalf("Failed to create GitHub client: %v", err)
	}

	// Initialize dependencies
	aggregator := services.NewContributorAggregator(githubService, tracker, services.NewRandomEstimator(cfg.Leaderboard.EstimateSeed), services.AggregatorOptions{
		TopRepositories:     cfg.Leaderboard.TopRepositories,
		ContributorsPerPage: cfg.Leaderboard.ContributorsPerPage,
		RequestDelay:        cfg.Leaderboard.RequestDelay,
	})
	leaderboardService, err := services.NewLeaderboardService(cfg.GitHub.Org, aggregator, tracker, collector, cfg.Leaderboard.SnapshotCacheSize)
	if err != nil {
		logger.Fatalf("Failed to create leaderboard service: %v", err)
	}

	discussionRepo := repositories.NewDiscussionRepository(database.DB)
	discussionService := services.NewDiscussionService(discussionRepo)
	statsRepo := repositories.NewCommunityStatsRepository(database.DB)
	statsService := services.NewCommunityStatsService(statsRepo, githubService, tracker, leaderboardService)
	exportService := services.NewExportService()

	// Initialize workers
	leaderboardWorker := workers.NewLeaderboardWorker("leaderboard-1", leaderboardService, tracker, cfg.Leaderboard.RefreshInterval)
	statsWorker := workers.NewStatsWorker("stats-1", statsService, leaderboardService.Org(), cfg.Leaderboard.StatsInterval)
	workerManager := workers.NewWorkerManager(leaderboardWorker, statsWorker)

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.FilterStateMiddleware())

	setupRoutes(router, routeDeps{
		leaderboard: handlers.NewLeaderboardHandler(leaderboardService, exportService, leaderboardWorker),
		discussions: handlers.NewDiscussionHandler(discussionService),
		stats:       handlers.NewStatsHandler(statsService, leaderboardService.Org()),
		health:      handlers.NewHealthHandler(tracker, workerManager),
		notFound:    handlers.NewNotFoundHandler(),
		tracker:     tracker,
		metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	// Start workers
	if err := workerManager.StartAll(); err != nil {
		logger.Fatalf("Failed to start workers: %v", err)
	}

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on :%s for organization %s", cfg.Server.Port, cfg.GitHub.Org)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	workerManager.StopAll()

	logger.Infof("Server stopped")
}

type routeDeps struct {
	leaderboard *handlers.LeaderboardHandler
	discussions *handlers.DiscussionHandler
	stats       *handlers.StatsHandler
	health      *handlers.HealthHandler
	notFound    *handlers.NotFoundHandler
	tracker     *services.RateLimitTracker
	metrics     http.Handler
}

func setupRoutes(router *gin.Engine, deps routeDeps) {
	router.GET("/health", deps.health.Health)
	router.GET("/metrics", gin.WrapH(deps.metrics))

	api := router.Group("/api")
	{
		api.GET("/leaderboard", deps.leaderboard.GetLeaderboard)
		api.POST("/leaderboard/refresh", middleware.RateLimitGuard(deps.tracker), deps.leaderboard.Refresh)
		api.GET("/leaderboard/export", deps.leaderboard.Export)
		api.GET("/rate-limit", deps.health.RateLimit)

		api.GET("/discussions", deps.discussions.ListDiscussions)
		api.POST("/discussions", deps.discussions.CreateDiscussion)
		api.DELETE("/discussions/filter", deps.discussions.ResetFilter)
		api.GET("/discussions/:id", deps.discussions.GetDiscussion)
		api.DELETE("/discussions/:id", deps.discussions.DeleteDiscussion)

		api.GET("/stats", deps.stats.GetStats)
	}

	router.NoRoute(deps.notFound.NotFound)
}
