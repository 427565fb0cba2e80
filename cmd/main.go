package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"google.golang.org/grpc/health"

	grpchealth "github.com/dtroode/zyneth-auth/internal/api/grpc/health"
	grpcrouter "github.com/dtroode/zyneth-auth/internal/api/grpc/router"
	grpcserver "github.com/dtroode/zyneth-auth/internal/api/grpc/server"
	httpctx "github.com/dtroode/zyneth-auth/internal/api/http/context"
	"github.com/dtroode/zyneth-auth/internal/api/http/handler"
	httprouter "github.com/dtroode/zyneth-auth/internal/api/http/router"
	httpserver "github.com/dtroode/zyneth-auth/internal/api/http/server"
	"github.com/dtroode/zyneth-auth/internal/config"
	"github.com/dtroode/zyneth-auth/internal/logger"
	"github.com/dtroode/zyneth-auth/internal/model"
	"github.com/dtroode/zyneth-auth/internal/provider/google"
	"github.com/dtroode/zyneth-auth/internal/repository/postgres"
	"github.com/dtroode/zyneth-auth/internal/repository/redis"
	"github.com/dtroode/zyneth-auth/internal/server"
	"github.com/dtroode/zyneth-auth/internal/service"
	"github.com/dtroode/zyneth-auth/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogFormat)

	warnings, err := cfg.Validate()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	for _, w := range warnings {
		logger.Error("CRITICAL: running degraded", "error", w)
	}
	logConfig(logger, cfg)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	var states model.StateStore
	if cfg.OAuth.VerifyState {
		redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("failed to initialize state store", "error", err)
		}
		defer redisClient.Close()
		states = redis.NewStateStore(redisClient)
	} else {
		logger.Warn("oauth state verification disabled, set OAUTH_VERIFY_STATE=true to enable")
	}

	endpoints := cfg.Endpoints()

	// provider stays a nil interface when credentials are missing.
	var provider service.IdentityProvider
	if cfg.Google.Configured() {
		p, err := google.New(google.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  endpoints.FrontendRedirectURI,
			AuthURL:      cfg.Google.AuthURL,
			TokenURL:     cfg.Google.TokenURL,
			UserInfoURL:  cfg.Google.UserInfoURL,
			Timeout:      cfg.Google.HTTPTimeout,
		})
		if err != nil {
			logger.Fatal("failed to create google provider", "error", err)
		}
		provider = p
	}

	tokenManager, err := token.NewJWT(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	if err != nil {
		logger.Fatal("failed to create session issuer", "error", err)
	}

	userRepo := postgres.NewUserRepository(db)
	authService := service.NewAuth(provider, userRepo, tokenManager, states, logger)
	userService := service.NewUser(userRepo, logger)

	healthServer := health.NewServer()
	monitor := grpchealth.NewMonitor(healthServer, db, cfg.GRPC.HealthInterval, logger)

	report := handler.ConfigReport{
		Environment:         cfg.Environment(),
		ClientIDSet:         cfg.Google.ClientID != "",
		ClientSecretSet:     cfg.Google.ClientSecret != "",
		FrontendRedirectURI: endpoints.FrontendRedirectURI,
		FrontendURL:         endpoints.FrontendURL,
		BackendURL:          endpoints.BackendURL,
	}
	engine := httprouter.New(authService, userService, tokenManager, httpctx.NewManager(), monitor, report, logger).Register()

	servers := []model.Server{
		httpserver.NewHTTPServer(engine, fmt.Sprintf(":%s", cfg.HTTP.Port)),
		grpcserver.NewGRPCServer(grpcrouter.New(healthServer, logger).Register(), fmt.Sprintf(":%s", cfg.GRPC.Port)),
	}
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	monitor.Check(ctx)

	var wg sync.WaitGroup

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	wg.Add(1)
	go func() {
		defer wg.Done()
		monitor.Run(monitorCtx)
	}()

	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "server", s.Name(), "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "server", s.Name(), "error", err)
				stop()
			}
		}(s)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "server", s.Name(), "error", err, "address", s.Address())
		}
	}
	stopMonitor()

	wg.Wait()
	logger.Info("shutdown complete")
}

func logConfig(logger *logger.Logger, cfg *config.Config) {
	endpoints := cfg.Endpoints()

	clientID := "MISSING"
	if id := cfg.Google.ClientID; id != "" {
		clientID = id[:min(10, len(id))] + "..."
	}
	secret := "MISSING"
	if cfg.Google.ClientSecret != "" {
		secret = "SET"
	}

	logger.Info("OAuth configuration (frontend-first)",
		"environment", cfg.Environment(),
		"google_client_id", clientID,
		"google_client_secret", secret,
		"frontend_redirect_uri", endpoints.FrontendRedirectURI,
		"frontend_url", endpoints.FrontendURL,
		"backend_url", endpoints.BackendURL,
		"verify_state", cfg.OAuth.VerifyState)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
