package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
}

type ValkeyClient struct {
	client valkey.Client
	opts   ValkeyOptions
	mu     sync.RWMutex
}

// NewValkeyClient connects and pings the server.
func NewValkeyClient(opts ValkeyOptions) (*ValkeyClient, error) {
	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}
	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", opts.Address))
	return &ValkeyClient{client: client, opts: opts}, nil
}

func connectValkey(opts ValkeyOptions) (valkey.Client, error) {
	clientOpts := valkey.ClientOption{
		InitAddress:      []string{opts.Address},
		Password:         opts.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if opts.UseTLS {
		clientOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}
	vc.client.Close()
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

// Set stores value under key. A zero ttl stores it without expiry.
func (vc *ValkeyClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	build := func(c valkey.Client) valkey.Completed {
		cmd := c.B().Set().Key(key).Value(valkey.BinaryString(value))
		if ttl > 0 {
			return cmd.ExSeconds(int64(ttl.Seconds())).Build()
		}
		return cmd.Build()
	}
	return vc.DoWithRetry(ctx, build, MAX_RETRIES).Error()
}

// Get returns the value stored under key. found is false when the key does
// not exist.
func (vc *ValkeyClient) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, MAX_RETRIES)

	value, err = res.AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// DoWithRetry rebuilds the command on each attempt so it can run against a
// recreated client.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.current()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if isConnectionError(err) {
			vc.recreateClient()
		}

		select {
		case <-ctx.Done():
			return result
		case <-time.After(INITIAL_BACKOFF):
		}
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
