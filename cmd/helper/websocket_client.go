package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

type WebSocketClient struct {
	conn   *websocket.Conn
	ctx    context.Context
	logger *Logger
}

func NewWebSocketClient(ctx context.Context, logger *Logger) *WebSocketClient {
	return &WebSocketClient{
		ctx:    ctx,
		logger: logger,
	}
}

func (w *WebSocketClient) Connect(url, token string) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		return fmt.Errorf("connecting to websocket: %w", err)
	}

	w.conn = conn
	w.logger.WebSocket("connected to %s", url)
	return nil
}

func (w *WebSocketClient) Close() error {
	if w.conn != nil {
		return w.conn.Close()
	}
	return nil
}

type rideNotification struct {
	Type string `json:"type"`
	Ride ride   `json:"ride"`
}

// ReadNotifications logs every ride update pushed by the ride service
// until the connection closes or the context is cancelled.
func (w *WebSocketClient) ReadNotifications() {
	for {
		select {
		case <-w.ctx.Done():
			w.logger.WebSocket("read loop stopped: context cancelled")
			return
		default:
			_, payload, err := w.conn.ReadMessage()
			if err != nil {
				w.logger.WebSocket("read loop finished: %v", err)
				return
			}

			var n rideNotification
			if err := json.Unmarshal(payload, &n); err != nil {
				w.logger.Error("undecodable notification: %s", payload)
				continue
			}
			w.logger.WebSocket("ride %s is now %s", n.Ride.ID, n.Ride.Status)
		}
	}
}
