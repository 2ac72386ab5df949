package distributed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Publisher sends pipeline events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, eventType string, event interface{}) error
	Close() error
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	Publish(subj string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSPublisher publishes JSON events to NATS subjects "<prefix>.<event type>".
type NATSPublisher struct {
	nc     conn
	prefix string
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("ytcomments"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	log.Info().Str("url", url).Str("prefix", prefix).Msg("Connected to NATS")
	return &NATSPublisher{nc: nc, prefix: prefix}, nil
}

// Publish marshals event and publishes it on the subject for eventType.
func (p *NATSPublisher) Publish(ctx context.Context, eventType string, event interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	subject := Subject(p.prefix, eventType)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	log.Debug().Str("subject", subject).Int("bytes", len(data)).Msg("Published event")
	return nil
}

// Close flushes pending events and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	err := p.nc.FlushTimeout(5 * time.Second)
	p.nc.Close()
	if err != nil {
		return fmt.Errorf("failed to flush NATS events: %w", err)
	}
	return nil
}

// NoopPublisher drops every event. It is used when no NATS server is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

func (NoopPublisher) Close() error { return nil }

// NewPublisher returns a NATS publisher for url, or a NoopPublisher when url is empty.
func NewPublisher(url, prefix string) (Publisher, error) {
	if url == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(url, prefix)
}
