package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"monthly-club.backend/internal/domain/gateways"
	"monthly-club.backend/pkg/logger"
	"monthly-club.backend/pkg/utils"
)

// HeaderMessageID lets subscribers drop redeliveries of the same event
const HeaderMessageID = "Nats-Msg-Id"

type natsConn interface {
	PublishMsg(msg *nats.Msg) error
	Drain() error
}

var connectNATS = func(url string, opts ...nats.Option) (natsConn, error) {
	return nats.Connect(url, opts...)
}

// NATSPublisher publishes JSON-encoded billing events to NATS subjects
type NATSPublisher struct {
	conn natsConn
}

// NewNATSPublisher connects to the NATS server at url
func NewNATSPublisher(url, name string) (*NATSPublisher, error) {
	conn, err := connectNATS(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(context.Background(), "NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info(context.Background(), "NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish marshals payload and publishes it on subject
func (p *NATSPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(HeaderMessageID, utils.NewID().String())
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// NoopPublisher logs events instead of publishing them. Used when no NATS URL is configured.
type NoopPublisher struct{}

// Publish logs the subject at debug level
func (NoopPublisher) Publish(ctx context.Context, subject string, _ interface{}) error {
	logger.Debug(ctx, "Event publishing disabled", zap.String("subject", subject))
	return nil
}

var (
	_ gateways.EventPublisher = (*NATSPublisher)(nil)
	_ gateways.EventPublisher = NoopPublisher{}
)
