package status

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/log"
)

type fakeLookuper struct {
	calls   atomic.Int32
	release chan struct{}
	resp    *Response
	err     error
}

func (f *fakeLookuper) Lookup(ctx context.Context, addr string) (*Response, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.resp, f.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (*Response, bool, error) {
	return nil, false, fmt.Errorf("connection refused")
}

func (brokenCache) Set(context.Context, string, *Response, time.Duration) error {
	return fmt.Errorf("connection refused")
}

func quietLogger() *log.Logger {
	return log.New(log.WithWriter(io.Discard))
}

func TestService_InvalidAddressMakesNoLookup(t *testing.T) {
	f := &fakeLookuper{resp: &Response{}}
	m := NewMetrics()
	s := NewService(f, WithMetrics(m), WithLogger(quietLogger()))

	_, err := s.Lookup(context.Background(), "localhost")
	assert.Equal(t, ReasonInvalidAddress, errors.Reason(err))
	assert.Equal(t, "invalid_host", errors.FromError(err).GetMetadata()["reason"])
	assert.EqualValues(t, 0, f.calls.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lookups.WithLabelValues(OutcomeInvalid)))
}

func TestService_CachesSuccessfulLookups(t *testing.T) {
	f := &fakeLookuper{resp: &Response{Online: true}}
	m := NewMetrics()
	s := NewService(f, WithCache(NewMemoryCache(), time.Minute), WithMetrics(m), WithLogger(quietLogger()))

	for _, input := range []string{"hypixel.net", " HYPIXEL.net "} {
		resp, err := s.Lookup(context.Background(), input)
		require.NoError(t, err)
		assert.True(t, resp.Online)
	}

	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lookups.WithLabelValues(OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lookups.WithLabelValues(OutcomeCached)))
}

func TestService_NoDataIsNotCached(t *testing.T) {
	f := &fakeLookuper{}
	cache := NewMemoryCache()
	s := NewService(f, WithCache(cache, time.Minute), WithLogger(quietLogger()))

	resp, err := s.Lookup(context.Background(), "hypixel.net")
	assert.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, 0, cache.Len())
}

func TestService_CacheFailuresAreNotSurfaced(t *testing.T) {
	f := &fakeLookuper{resp: &Response{Online: true}}
	s := NewService(f, WithCache(brokenCache{}, time.Minute), WithLogger(quietLogger()))

	resp, err := s.Lookup(context.Background(), "hypixel.net")
	require.NoError(t, err)
	assert.True(t, resp.Online)
}

func TestService_LookupErrorsPassThrough(t *testing.T) {
	f := &fakeLookuper{err: lookupHTTP(429, nil)}
	m := NewMetrics()
	s := NewService(f, WithMetrics(m), WithLogger(quietLogger()))

	_, err := s.Lookup(context.Background(), "hypixel.net")
	assert.Equal(t, 429, UpstreamStatus(err))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.lookups.WithLabelValues(OutcomeHTTP)))
}

func TestService_CoalescesConcurrentLookups(t *testing.T) {
	f := &fakeLookuper{release: make(chan struct{}), resp: &Response{Online: true}}
	s := NewService(f, WithLogger(quietLogger()))

	const n = 8
	var wg sync.WaitGroup
	results := make([]*Response, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = s.Lookup(context.Background(), "hypixel.net")
		}()
	}

	// 等待第一个请求进入后再放行
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.True(t, r.Online)
	}
}

func TestService_CallerCancellation(t *testing.T) {
	f := &fakeLookuper{release: make(chan struct{}), resp: &Response{}}
	defer close(f.release)
	s := NewService(f, WithLogger(quietLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := s.Lookup(ctx, "hypixel.net")
	assert.Equal(t, ReasonLookupNetwork, errors.Reason(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics()
	require.NoError(t, m.Register(reg))
	assert.Error(t, m.Register(reg), "registering twice fails")
}
