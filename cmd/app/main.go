package main

import (
	"context"
	"fmt"
	"os"

	authservice "ride-sharing/internal/auth-service"
	"ride-sharing/internal/config"
	driverservice "ride-sharing/internal/driver-service"
	"ride-sharing/internal/mylogger"
	rideservice "ride-sharing/internal/ride-service"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: app <auth-service|ride-service|driver-service>")
		os.Exit(1)
	}
	service := os.Args[1]

	log := mylogger.New(os.Getenv("LOG_LEVEL"), service)
	cfg := config.New(log)
	ctx := context.Background()

	var err error
	switch service {
	case "auth-service":
		err = authservice.Run(ctx, log, cfg)
	case "ride-service":
		err = rideservice.Run(ctx, log, cfg)
	case "driver-service":
		err = driverservice.Run(ctx, log, cfg)
	default:
		fmt.Fprintf(os.Stderr, "unknown service %q\n", service)
		os.Exit(1)
	}
	if err != nil {
		log.Error("service stopped", err)
		os.Exit(1)
	}
}
