package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/PaulBabatuyi/discussions-gRPC/api/discussion/v1"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/auth"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/logger"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/metrics"
	"github.com/PaulBabatuyi/discussions-gRPC/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	ctx := context.Background()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		_ = st.close(context.Background())
	}()

	hasher, err := auth.NewPasswordHasher(cfg.PasswordSalt)
	if err != nil {
		return err
	}

	// With JWT_KEYS tokens can be rotated; otherwise a single JWT_SECRET signs everything
	var jwtMgr *auth.JWTManager
	if len(cfg.JWTKeys) > 0 {
		jwtMgr = auth.NewJWTManagerFromKeys(cfg.JWTKeys, cfg.JWTActiveKid, cfg.TokenTTL)
	} else {
		jwtMgr = auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Small burst allows a couple of quick retries on Register and Login
	limiter := middleware.NewLimiter(cfg.RateLimitRPM, 3, time.Minute)
	defer limiter.Close()

	serverOpts, err := transportCredentials(cfg)
	if err != nil {
		return err
	}
	serverOpts = append(serverOpts,
		grpc.ChainUnaryInterceptor(
			middleware.UnaryInterceptor(limiter, publicMethods),
			collector.UnaryServerInterceptor(),
			loggingUnaryInterceptor(log),
			authUnaryInterceptor(jwtMgr),
		),
		grpc.ChainStreamInterceptor(
			collector.StreamServerInterceptor(),
			loggingStreamInterceptor(log),
			authStreamInterceptor(jwtMgr),
		),
	)
	grpcServer := grpc.NewServer(serverOpts...)

	hub := NewConnectionHub()
	srv := newServer(st, hasher, jwtMgr, hub, collector, log)
	registerService(grpcServer, srv)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	admin := newAdminServer(fmt.Sprintf(":%d", cfg.AdminPort), newAdminRouter(st.ping, reg))

	errCh := make(chan error, 2)
	go func() {
		log.Info("gRPC server listening", "addr", lis.Addr().String(), "service", v1.ServiceName)
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		log.Info("admin server listening", "addr", admin.Addr)
		if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	var serveErr error
	select {
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	case serveErr = <-errCh:
		log.Error("server failed", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := admin.Shutdown(shutdownCtx); err != nil {
		log.Warn("admin shutdown", "error", err)
	}

	// Watch streams only end with their client; stop hard if they hold us past the timeout
	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}
	return serveErr
}

// transportCredentials enables TLS when a certificate pair is configured.
func transportCredentials(cfg Config) ([]grpc.ServerOption, error) {
	if cfg.TLSCert == "" || cfg.TLSKey == "" {
		return nil, nil
	}
	creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
	if err != nil {
		return nil, fmt.Errorf("load TLS certs: %w", err)
	}
	return []grpc.ServerOption{grpc.Creds(creds)}, nil
}
