package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/arcnft/marketplace-sync/internal/adapter"
	"github.com/arcnft/marketplace-sync/internal/domain"
	"github.com/arcnft/marketplace-sync/internal/logger"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type jetStreamPublisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
}

// NewJetStreamPublisher creates a new NATS JetStream repair publisher
func NewJetStreamPublisher(cfg Config, natsJS adapter.NatsJetStream) (Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(errors.New("disconnected from NATS"), zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &jetStreamPublisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
	}, nil
}

// PublishRepair publishes a repair request to NATS JetStream
func (p *jetStreamPublisher) PublishRepair(ctx context.Context, event *domain.RepairEvent) error {
	logger.Debug("publishing repair event", zap.Any("event", event))

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal repair event: %w", err)
	}

	if _, err := p.js.Publish(ctx, RepairSubject, data); err != nil {
		return fmt.Errorf("failed to publish repair event: %w", err)
	}

	return nil
}

// Close closes the NATS connection
func (p *jetStreamPublisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
