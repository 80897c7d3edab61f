package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
	"github.com/dachrisch/energy.consumption-sub001/internal/config"
	applog "github.com/dachrisch/energy.consumption-sub001/internal/log"
	httpserver "github.com/dachrisch/energy.consumption-sub001/internal/transport/http"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath  = flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
		addr     = flag.String("addr", "", "listen address (overrides config)")
		grpcAddr = flag.String("grpc", "", "gRPC target host:port (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}
	if *grpcAddr != "" {
		cfg.GRPCTarget = *grpcAddr
	}

	logger := applog.New(applog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(cfg.GRPCTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Error("dial gRPC failed", "target", cfg.GRPCTarget, applog.FieldError, err)
		os.Exit(1)
	}
	defer conn.Close()

	// Reduce docker-compose race: wait a bit for gRPC to be ready.
	waitForGRPC(ctx, conn, cfg.GRPCWaitTimeout, logger)

	client := meterv1.NewConsumptionServiceClient(conn)
	srv := httpserver.New(client, logger)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	})

	h := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           c.Handler(srv),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.HTTPAddr, applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("HTTP listening", "addr", cfg.HTTPAddr, "grpc_target", cfg.GRPCTarget)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down HTTP")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Shutdown(shutdownCtx)
	}()

	if err := h.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func waitForGRPC(ctx context.Context, conn *grpc.ClientConn, maxWait time.Duration, logger *slog.Logger) {
	if maxWait <= 0 {
		return
	}

	hc := healthpb.NewHealthClient(conn)
	deadline := time.Now().Add(maxWait)

	backoff := 100 * time.Millisecond
	for {
		if ctx.Err() != nil {
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
		_, err := hc.Check(reqCtx, &healthpb.HealthCheckRequest{Service: meterv1.ServiceName})
		cancel()
		if err == nil {
			logger.Info("gRPC is ready")
			return
		}

		if time.Now().After(deadline) {
			logger.Warn("gRPC not ready, continuing anyway", "waited", maxWait.String(), applog.FieldError, err)
			return
		}

		time.Sleep(backoff)
		if backoff < 1*time.Second {
			backoff = min(backoff*2, 1*time.Second)
		}
	}
}
