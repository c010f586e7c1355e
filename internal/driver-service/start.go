package driverservice

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ride-sharing/internal/config"
	"ride-sharing/internal/driver-service/adapters/driver/myhttp"
	"ride-sharing/internal/mylogger"
)

func Run(ctx context.Context, log mylogger.Logger, cfg *config.Config) error {
	shutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	srv := myhttp.NewServer(shutdown, log, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-shutdown.Done():
		log.Info("gracefully shutting down...")
		return srv.Stop(context.Background())
	}
}
