package firestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	fs "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Conn manages the single Firestore client for the process. The client is
// constructed lazily on first use and shared by every caller; construction
// never happens twice, even under concurrent first use.
type Conn struct {
	cfg ClientConfig

	once   sync.Once
	client *fs.Client
	err    error

	dial func(ctx context.Context) (*fs.Client, error)
}

// NewConn creates a connection holder. No network activity happens here;
// the underlying client is built on the first Client call.
func NewConn(opts ...ClientOption) *Conn {
	cfg := &ClientConfig{
		Timeout: 15 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	c := &Conn{cfg: *cfg}
	c.dial = c.dialFirestore
	return c
}

// Client returns the shared Firestore client, constructing it on first use.
// A failed construction is memoized, so every later call fails the same way
// instead of retrying or dereferencing a nil client.
func (c *Conn) Client(ctx context.Context) (*fs.Client, error) {
	c.once.Do(func() {
		c.client, c.err = c.dial(ctx)
	})
	return c.client, c.err
}

func (c *Conn) dialFirestore(ctx context.Context) (*fs.Client, error) {
	app, err := firebase.NewApp(ctx,
		&firebase.Config{ProjectID: c.cfg.ProjectID},
		option.WithCredentialsFile(c.cfg.CredentialsFile),
	)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return client, nil
}

// Timeout returns the per-call network timeout.
func (c *Conn) Timeout() time.Duration {
	return c.cfg.Timeout
}

// Health verifies the connection is initialized and usable.
func (c *Conn) Health(ctx context.Context) error {
	_, err := c.Client(ctx)
	return err
}

// Close closes the underlying client if one was ever constructed.
func (c *Conn) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
