package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPClient struct {
	client *http.Client
	logger *Logger
}

func NewHTTPClient(logger *Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// DoJSON sends a JSON request, decodes the JSON response into out (when
// out is non-nil) and fails on any non-2xx status.
func (h *HTTPClient) DoJSON(method, url, token string, body, out interface{}) error {
	time.Sleep(HTTPRequestDelay)

	var bodyBytes []byte
	var err error
	if body != nil {
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	req, err := http.NewRequest(method, url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	h.logger.HTTP("%s %s", method, url)
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// Response models, mirroring the service DTOs.
type registerResponse struct {
	Message string `json:"message"`
	User    struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type setRoleResponse struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type ride struct {
	ID             string  `json:"id"`
	Pickup         string  `json:"pickup"`
	Destination    string  `json:"destination"`
	Status         string  `json:"status"`
	DriverUsername *string `json:"driverUsername"`
}

type requestRideResponse struct {
	Message string `json:"message"`
	Ride    ride   `json:"ride"`
}

type rideResponse struct {
	Ride ride `json:"ride"`
}

type pendingRide struct {
	RideID      string `json:"ride_id"`
	Pickup      string `json:"pickup_location"`
	Destination string `json:"destination_location"`
}

type availableRidesResponse struct {
	Rides []pendingRide `json:"rides"`
}

type ackResponse struct {
	Message string `json:"message"`
	RideID  string `json:"rideId"`
}

type driverStatusResponse struct {
	Driver struct {
		ID            string  `json:"id"`
		Username      string  `json:"username"`
		IsAvailable   bool    `json:"is_available"`
		CurrentRideID *string `json:"current_ride_id"`
	} `json:"driver"`
}
