package redis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/ekoelbar/barclient/internal/config"
	"github.com/ekoelbar/barclient/internal/storage"
)

// Store keeps each key as a plain redis string under "<prefix>:<key>".
// Values never expire; the cart lives until it is cleared.
type Store struct {
	client *redis.Client
	prefix string
}

var _ storage.Storage = (*Store)(nil)

type Option func(*redis.Options)

func WithPassword(password string) Option {
	return func(o *redis.Options) {
		o.Password = password
	}
}

func WithDB(db int) Option {
	return func(o *redis.Options) {
		o.DB = db
	}
}

// NewClient builds a redis client from config and checks connectivity
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := newClient(cfg.Addr, WithPassword(cfg.Password), WithDB(cfg.DB))
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func newClient(address string, options ...Option) *redis.Client {
	opts := &redis.Options{
		Addr: address,
	}
	for _, option := range options {
		option(opts)
	}
	return redis.NewClient(opts)
}

func New(client *redis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (r *Store) prefixKey(key string) string {
	if r.prefix == "" {
		return key
	}
	var builder strings.Builder
	builder.Grow(len(r.prefix) + 1 + len(key))
	builder.WriteString(r.prefix)
	builder.WriteString(":")
	builder.WriteString(key)
	return builder.String()
}

func (r *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.prefixKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	return value, err
}

func (r *Store) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefixKey(key), value, 0).Err()
}
