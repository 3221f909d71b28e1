// Package events publishes resolved conversation turns to NATS JetStream.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"carfinder/internal/model"
	"carfinder/pkg/logger"
)

const (
	// DefaultStream is the stream holding turn events
	DefaultStream = "CARFINDER_TURNS"

	// SubjectPrefix is the prefix for every turn subject
	SubjectPrefix = "carfinder.turns"
)

// Config holds NATS connection settings
type Config struct {
	URL    string
	Stream string
	Token  string
}

// Client wraps a NATS connection and its JetStream context
type Client struct {
	conn *nats.Conn
	js   jetstream.JetStream
	log  *logger.Logger
}

// Connect dials NATS with unlimited reconnects
func Connect(cfg Config, log *logger.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.Name("carfinder"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error("NATS error", zap.Error(err))
		}),
	}
	if cfg.Token != "" {
		opts = append(opts, nats.Token(cfg.Token))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Client{conn: nc, js: js, log: log}, nil
}

// Close closes the connection
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

// IsConnected reports whether the connection is up
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// EnsureStream creates the turn stream if it does not exist yet
func (c *Client) EnsureStream(ctx context.Context, name string) error {
	if name == "" {
		name = DefaultStream
	}
	if _, err := c.js.Stream(ctx, name); err == nil {
		return nil
	}

	_, err := c.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        name,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Resolved car inventory conversation turns",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}
	return nil
}

// TurnSubject returns the subject a conversation's turns are published on.
// Characters NATS treats specially are replaced so any id yields one token.
func TurnSubject(conversationID string) string {
	token := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, conversationID)
	if token == "" {
		token = model.DefaultConversationID
	}
	return SubjectPrefix + "." + token
}

// TurnPublisher records turns as JetStream messages
type TurnPublisher struct {
	js jetstream.JetStream
}

// NewTurnPublisher creates a publisher on the client's JetStream context
func NewTurnPublisher(client *Client) *TurnPublisher {
	return &TurnPublisher{js: client.js}
}

// RecordTurn publishes the record as JSON
func (p *TurnPublisher) RecordTurn(ctx context.Context, rec model.TurnRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}
	if _, err := p.js.Publish(ctx, TurnSubject(rec.ConversationID), data); err != nil {
		return fmt.Errorf("failed to publish turn: %w", err)
	}
	return nil
}
