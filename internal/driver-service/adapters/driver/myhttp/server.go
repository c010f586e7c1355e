package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ride-sharing/internal/authgw"
	"ride-sharing/internal/config"
	"ride-sharing/internal/driver-service/adapters/driven/consumer"
	"ride-sharing/internal/driver-service/adapters/driven/db"
	"ride-sharing/internal/driver-service/adapters/driver/myhttp/handle"
	"ride-sharing/internal/driver-service/core/services"
	"ride-sharing/internal/mylogger"
	"ride-sharing/internal/observability"
	"ride-sharing/internal/postgres"
	"ride-sharing/internal/rabbitmq"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownWait = 10 * time.Second

type Server struct {
	mux   *http.ServeMux
	cfg   *config.Config
	srv   *http.Server
	mylog mylogger.Logger
	db    *postgres.DataBase
	mb    *rabbitmq.RabbitMQ
	ctx   context.Context
	mu    sync.Mutex
}

func NewServer(ctx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	return &Server{
		ctx:   ctx,
		cfg:   cfg,
		mylog: mylog,
		mux:   http.NewServeMux(),
	}
}

func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	database, err := postgres.Connect(s.ctx, s.cfg.DB, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	if err := s.db.EnsureSchema(s.ctx, db.Schema); err != nil {
		return err
	}
	mylog.Info("successful database connection")

	mb, err := rabbitmq.New(s.ctx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("successful message broker connection")

	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.DriverServicePort),
		Handler: observability.Middleware("driver-service", s.mux),
	}
	s.mu.Unlock()

	mylog.Info("server is running", "port", s.cfg.Srv.DriverServicePort)
	return s.startHTTPServer()
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownWait)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}
	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("failed to close message broker", err)
		}
	}
	if s.db != nil {
		s.db.Close()
	}
	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Configure() error {
	driverRepo := db.NewDriverRepo(s.db)
	driverService := services.NewDriverService(s.ctx, s.mylog, driverRepo, s.mb)
	driverHandler := handle.NewDriverHandler(driverService, s.mylog)

	gateway := authgw.NewClient(
		s.cfg.Auth.AuthServiceURL,
		time.Duration(s.cfg.Auth.VerifyTimeoutSec)*time.Second,
	)
	auth := authgw.NewMiddleware(gateway)

	s.mux.Handle("GET /available-rides", auth.Wrap(driverHandler.AvailableRides()))
	s.mux.Handle("POST /accept-ride/{rideId}", auth.Wrap(driverHandler.AcceptRide()))
	s.mux.Handle("POST /complete-ride/{rideId}", auth.Wrap(driverHandler.CompleteRide()))
	s.mux.Handle("GET /driver-status", auth.Wrap(driverHandler.DriverStatus()))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	feed := consumer.New(s.ctx, s.mylog, s.mb, driverService)
	if err := feed.Run(); err != nil {
		return fmt.Errorf("failed to start event consumer: %w", err)
	}
	return nil
}
