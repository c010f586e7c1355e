package main

import "time"

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

// Pacing constants so the smoke run is readable and does not hammer
// the freshly started services.
const (
	HTTPRequestDelay = 200 * time.Millisecond
	PendingPollDelay = 500 * time.Millisecond
	PendingPollLimit = 20
	EventSettleDelay = 1 * time.Second
)

// Service endpoints
const (
	AuthBaseURL   = "http://localhost:3000"
	RideBaseURL   = "http://localhost:3001"
	DriverBaseURL = "http://localhost:3002"
	WSRidesURL    = "ws://localhost:3001/ws/rides"
)

type Credentials struct {
	Username string
	Password string
}

var (
	riderCreds  = Credentials{Username: "smoke-rider", Password: "rider-pass-123"}
	driverCreds = Credentials{Username: "smoke-driver", Password: "driver-pass-123"}
)
