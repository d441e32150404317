package status

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/log"
)

var _ Lookuper = (*Service)(nil)

// Service validates addresses, serves fresh answers from the cache and
// coalesces concurrent lookups of the same address into one API request.
type Service struct {
	lookuper Lookuper
	cache    Cache
	ttl      time.Duration
	metrics  *Metrics
	log      *log.Logger
	group    singleflight.Group
}

type ServiceOption func(*Service)

// WithCache enables caching of successful lookups for ttl.
func WithCache(cache Cache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = cache
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(l *log.Logger) ServiceOption {
	return func(s *Service) {
		s.log = l
	}
}

func NewService(lookuper Lookuper, opts ...ServiceOption) *Service {
	s := &Service{
		lookuper: lookuper,
		ttl:      DefaultCacheTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) logger() *log.Logger {
	if s.log != nil {
		return s.log
	}
	return log.L
}

// Lookup returns the status of addr.
// Cache failures are logged and never surface to the caller.
func (s *Service) Lookup(ctx context.Context, addr string) (*Response, error) {
	parsed, err := address.Parse(addr)
	if err != nil {
		s.metrics.observe(OutcomeInvalid)
		return nil, invalidAddress(err)
	}

	key := CacheKey(parsed.Raw)
	if resp, ok := s.cacheGet(ctx, key); ok {
		s.metrics.observe(OutcomeCached)
		return resp, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// 合并的请求不能被单个调用方取消
		return s.fetch(context.WithoutCancel(ctx), key, parsed.Raw)
	})

	select {
	case <-ctx.Done():
		return nil, lookupNetwork(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Response), nil
	}
}

func (s *Service) fetch(ctx context.Context, key, addr string) (*Response, error) {
	start := time.Now()
	resp, err := s.lookuper.Lookup(ctx, addr)
	s.metrics.observeDuration(time.Since(start).Seconds())

	switch {
	case err != nil:
		s.metrics.observe(outcomeOf(err))
		s.logger().Warn().Err(err).Str("address", addr).Msg("status lookup failed")
		return nil, err
	case resp == nil:
		s.metrics.observe(OutcomeNoData)
		return nil, nil
	}

	s.metrics.observe(OutcomeOK)
	s.cacheSet(ctx, key, resp)
	return resp, nil
}

func (s *Service) cacheGet(ctx context.Context, key string) (*Response, bool) {
	if s.cache == nil {
		return nil, false
	}
	resp, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger().Warn().Err(err).Str("key", key).Msg("status cache read failed")
		return nil, false
	}
	return resp, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, resp *Response) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, resp, s.ttl); err != nil {
		s.logger().Warn().Err(err).Str("key", key).Msg("status cache write failed")
	}
}
