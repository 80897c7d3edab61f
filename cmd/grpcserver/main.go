package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	meterv1 "github.com/dachrisch/energy.consumption-sub001/internal/api/meterv1"
	"github.com/dachrisch/energy.consumption-sub001/internal/config"
	applog "github.com/dachrisch/energy.consumption-sub001/internal/log"
	"github.com/dachrisch/energy.consumption-sub001/internal/meter"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo/csvrepo"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo/sqliterepo"
	"github.com/dachrisch/energy.consumption-sub001/internal/service"
	grpcserver "github.com/dachrisch/energy.consumption-sub001/internal/transport/grpc"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	var (
		cfgPath = flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
		addr    = flag.String("addr", "", "listen address (overrides config)")
		csvPath = flag.String("csv", "", "path to readings CSV (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.GRPCAddr = *addr
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}

	logger := applog.New(applog.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readings, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open readings repository", "backend", cfg.Backend, applog.FieldError, err)
		os.Exit(1)
	}
	defer closeRepo()

	engine := meter.NewEngine(
		meter.WithToleranceDays(cfg.ToleranceDays),
		meter.WithLogger(applog.WithComponent(logger, applog.ComponentEngine)),
	)
	svc := service.NewConsumptionService(readings, engine, logger)
	api := grpcserver.New(svc, logger)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Error("listen failed", "addr", cfg.GRPCAddr, applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("gRPC listening", "addr", cfg.GRPCAddr, "backend", cfg.Backend, "tolerance_days", engine.ToleranceDays())

	g := grpc.NewServer()
	meterv1.RegisterConsumptionServiceServer(g, api)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(meterv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(g, hs)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down gRPC")
		hs.Shutdown()
		ch := make(chan struct{})
		go func() {
			g.GracefulStop()
			close(ch)
		}()
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			g.Stop()
		}
	}()

	if err := g.Serve(lis); err != nil {
		logger.Error("serve failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repo.ReadingRepository, func(), error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		r, err := sqliterepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return r, func() {
			if err := r.Close(); err != nil {
				logger.Warn("close sqlite", applog.FieldError, err)
			}
		}, nil
	default:
		r, err := csvrepo.NewFromFile(cfg.CSVPath)
		if err != nil {
			// A few bad rows are tolerated as long as something was parsed.
			if r == nil {
				return nil, nil, err
			}
			logger.Warn("csv loaded with skipped rows", "path", cfg.CSVPath, applog.FieldError, err)
		}
		// The CSV is read fully at startup; nothing to release.
		return r, func() {}, nil
	}
}
