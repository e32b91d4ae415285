package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opsdeck/internal/config"
	"opsdeck/internal/middleware"
	"opsdeck/internal/routes"
	"opsdeck/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: opsdeck.yaml in . or ~/.opsdeck)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[CONFIG] Failed to load configuration: %v", err)
	}

	// State and auth setup
	services.InitStore(cfg.StatePath("state.json"))
	services.InitAuthService(cfg.Auth.SecretKey, cfg.StatePath("secret.key"), cfg.Auth.TokenTTL)
	services.InitCronService(cfg.Cron.CrontabBinary)
	services.InitSSHManager(cfg.SSH.DialTimeout, cfg.SSH.KnownHostsPath)
	services.InitShellService(cfg.Shell.CommandTimeout, cfg.Shell.HistorySize)

	// Background collectors
	services.SetHistoryDepth(cfg.Monitor.HistoryPoints)
	services.StartProcessCollector(cfg.Monitor.CollectInterval)
	services.StartHistoryCollector(cfg.Monitor.CollectInterval)
	services.InitWebSocketHub()

	r := gin.Default()

	// Security middleware
	middleware.NewSecurityLogger()
	rateLimiter := middleware.NewRateLimiter()
	tokenLimiter := middleware.NewTokenRateLimiter()
	whitelist := middleware.NewIPWhitelist(cfg.Security.AllowedIPs)

	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Security.AllowedOrigins))
	r.Use(middleware.IPWhitelistMiddleware(whitelist))
	r.Use(middleware.RateLimitMiddleware(rateLimiter))

	auth := middleware.AuthRequiredMiddleware()

	routes.RegisterAuthRoutes(r, tokenLimiter)
	routes.RegisterMonitorRoutes(r, auth)
	routes.RegisterProcessRoutes(r, auth)
	routes.RegisterCronRoutes(r, auth)
	routes.RegisterSSHRoutes(r, auth)
	routes.RegisterFileRoutes(r, auth)
	routes.RegisterShellRoutes(r, auth)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		log.Printf("[SERVER] Listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[SERVER] Listen error: %v", err)
		}
	}()

	// Wait for interrupt, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[SERVER] Shutting down")

	services.StopProcessCollector()
	services.StopHistoryCollector()
	services.StopWebSocketHub()
	services.GetSSHManager().CloseAllSessions()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[SERVER] Forced shutdown: %v", err)
	}
	log.Println("[SERVER] Stopped")
}
