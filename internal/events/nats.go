package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSPublisher forwards bus events to a JetStream subject so external
// consumers (dashboards, billing) can follow build progress.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to NATS and ensures the stream exists with
// the given subject bound to it.
func NewNATSPublisher(ctx context.Context, url, stream, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{subject},
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", stream, err)
	}
	return &NATSPublisher{conn: conn, js: js, subject: subject}, nil
}

// Handler returns a bus handler forwarding events to the subject.
// Publish failures are logged and dropped.
func (p *NATSPublisher) Handler() Handler {
	return func(e Event) {
		payload, err := json.Marshal(e)
		if err != nil {
			return
		}
		if _, err := p.js.Publish(context.Background(), p.subject, payload); err != nil {
			slog.Warn("Failed to publish build event to NATS", "type", e.Type, "error", err)
		}
	}
}

// Close drains the underlying connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
