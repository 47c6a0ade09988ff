package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ConnectionPool opens independent client connections against the same
// deployment and holds them open, for driving connection-count alerts.
// Each Open dials a fresh client with its own socket pool of one.
type ConnectionPool struct {
	uri    string
	logger *slog.Logger

	mu      sync.Mutex
	clients []*mongo.Client
}

// NewConnectionPool creates an empty pool for the given connection string.
func NewConnectionPool(uri string, logger *slog.Logger) *ConnectionPool {
	return &ConnectionPool{
		uri:    uri,
		logger: logger.With("component", "connection_pool"),
	}
}

// Open dials one additional client and verifies it with a ping before
// adding it to the held set.
func (p *ConnectionPool) Open(ctx context.Context) error {
	client, err := mongo.Connect(options.Client().
		ApplyURI(p.uri).
		SetMaxPoolSize(1).
		SetServerSelectionTimeout(5 * time.Second))
	if err != nil {
		return fmt.Errorf("dial connection: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("ping new connection: %w", err)
	}

	p.mu.Lock()
	p.clients = append(p.clients, client)
	p.mu.Unlock()
	return nil
}

// Count returns the number of held connections.
func (p *ConnectionPool) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// CloseAll disconnects every held client.
func (p *ConnectionPool) CloseAll(ctx context.Context) {
	p.mu.Lock()
	clients := p.clients
	p.clients = nil
	p.mu.Unlock()

	for _, client := range clients {
		if err := client.Disconnect(ctx); err != nil {
			p.logger.Warn("failed to close held connection", "error", err)
		}
	}
}
