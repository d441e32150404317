package redis

import (
	"context"
	"runtime"

	"github.com/redis/go-redis/v9"
)

type Single struct {
	Client *redis.Client
	config *Config
}

type SingleOption func(*Single)

// NewClient connects to a single redis node and pings it. The returned
// Single is usable for Close even when the ping fails.
func NewClient(ctx context.Context, c *Config, opts ...SingleOption) (*Single, error) {
	s := &Single{
		config: c,
	}

	if err := s.config.init(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		opt(s)
	}

	return s.newClient(ctx)
}

func (s *Single) newClient(ctx context.Context) (*Single, error) {
	if s.config.PoolSize == 0 {
		s.config.PoolSize = 10 * runtime.GOMAXPROCS(0)
	}

	s.Client = redis.NewClient(&redis.Options{
		Addr:        s.config.Addr(),
		Password:    s.config.Password,
		DB:          s.config.DB,
		Protocol:    s.config.Protocol,
		PoolSize:    s.config.PoolSize,
		DialTimeout: s.config.DialTimeout,
	})

	_, err := s.Client.Ping(ctx).Result()

	return s, err
}

func (s *Single) Close() error {
	if s.Client == nil {
		return nil
	}

	return s.Client.Close()
}
