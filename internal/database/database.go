// Package database provides MongoDB connection management for GoSeed.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/dbsmedya/goseed/internal/config"
	"github.com/dbsmedya/goseed/internal/seeder"
)

const defaultConnectTimeout = 10 * time.Second

// Manager owns the single MongoDB client used by a run.
type Manager struct {
	Client *mongo.Client
	config *config.MongoConfig
}

// NewManager creates a new database manager from configuration.
func NewManager(cfg *config.MongoConfig) *Manager {
	return &Manager{
		config: cfg,
	}
}

// Connect creates the client and verifies the deployment is reachable.
// There is a single attempt bounded by the configured connect timeout;
// failures wrap seeder.ErrConnection.
func (m *Manager) Connect(ctx context.Context) error {
	if m.Client != nil {
		return nil
	}

	timeout := m.connectTimeout()
	opts := options.Client().
		ApplyURI(BuildURI(m.config)).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	if m.config.AppName != "" {
		opts.SetAppName(m.config.AppName)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return fmt.Errorf("%w: failed to create client: %w", seeder.ErrConnection, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("%w: ping failed: %w", seeder.ErrConnection, err)
	}

	m.Client = client
	return nil
}

func (m *Manager) connectTimeout() time.Duration {
	if m.config.ConnectTimeoutSeconds > 0 {
		return time.Duration(m.config.ConnectTimeoutSeconds) * time.Second
	}
	return defaultConnectTimeout
}

// BuildURI constructs a MongoDB connection string from configuration.
// An explicit URI wins over the discrete fields.
func BuildURI(cfg *config.MongoConfig) string {
	if cfg.URI != "" {
		return cfg.URI
	}

	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/",
	}

	q := url.Values{}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
		if cfg.AuthSource != "" {
			q.Set("authSource", cfg.AuthSource)
		}
	}
	if cfg.TLS == "required" {
		q.Set("tls", "true")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// RedactURI replaces the password in uri with "xxxxx" for display.
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid uri>"
	}
	return u.Redacted()
}

// Store returns the connected client as a seeder.Store.
func (m *Manager) Store() (*Store, error) {
	if m.Client == nil {
		return nil, fmt.Errorf("%w: not connected", seeder.ErrConnection)
	}
	return NewStore(m.Client), nil
}

// Ping verifies the connection is alive.
func (m *Manager) Ping(ctx context.Context) error {
	if m.Client == nil {
		return fmt.Errorf("%w: not connected", seeder.ErrConnection)
	}
	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: ping failed: %w", seeder.ErrConnection, err)
	}
	return nil
}

// Close disconnects the client.
func (m *Manager) Close(ctx context.Context) error {
	if m.Client == nil {
		return nil
	}
	err := m.Client.Disconnect(ctx)
	m.Client = nil
	if err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}
