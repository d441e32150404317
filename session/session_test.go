package session

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/status"
)

// gatedLookuper blocks each lookup until its address is released.
type gatedLookuper struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	resps map[string]*status.Response
	errs  map[string]error
	calls []string
}

func newGatedLookuper() *gatedLookuper {
	return &gatedLookuper{
		gates: make(map[string]chan struct{}),
		resps: make(map[string]*status.Response),
		errs:  make(map[string]error),
	}
}

func (g *gatedLookuper) gate(addr string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[addr]
	if !ok {
		ch = make(chan struct{})
		g.gates[addr] = ch
	}
	return ch
}

func (g *gatedLookuper) release(addr string) {
	close(g.gate(addr))
}

func (g *gatedLookuper) Lookup(ctx context.Context, addr string) (*status.Response, error) {
	g.mu.Lock()
	g.calls = append(g.calls, addr)
	g.mu.Unlock()

	select {
	case <-g.gate(addr):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resps[addr], g.errs[addr]
}

func (g *gatedLookuper) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func newTestSession(l status.Lookuper, opts ...Option) *Session {
	opts = append([]Option{WithLogger(log.New(log.WithWriter(io.Discard)))}, opts...)
	return New(l, opts...)
}

func TestSession_Result(t *testing.T) {
	g := newGatedLookuper()
	g.resps["hypixel.net"] = &status.Response{Online: true}
	g.release("hypixel.net")

	s := newTestSession(g)
	assert.Equal(t, KindValid, s.SetInput("hypixel.net").Kind)
	assert.Equal(t, KindLoading, s.Submit().Kind)
	s.Wait()

	state := s.State()
	assert.Equal(t, KindResult, state.Kind)
	assert.True(t, state.Data.Online)
}

func TestSession_NoDataAndError(t *testing.T) {
	g := newGatedLookuper()
	g.errs["down.example.com"] = errors.ServiceUnavailable("lookup failed").WithReason(status.ReasonLookupNetwork)
	g.release("empty.example.com")
	g.release("down.example.com")

	s := newTestSession(g)
	s.SetInput("empty.example.com")
	s.Submit()
	s.Wait()
	assert.Equal(t, KindNoData, s.State().Kind)

	s.SetInput("down.example.com")
	s.Submit()
	s.Wait()
	state := s.State()
	assert.Equal(t, KindError, state.Kind)
	assert.Equal(t, ErrorKindNetwork, state.ErrorKind)
}

func TestSession_InvalidSubmitMakesNoLookup(t *testing.T) {
	g := newGatedLookuper()
	s := newTestSession(g)

	s.SetInput("my server.com")
	state := s.Submit()
	s.Wait()

	assert.Equal(t, KindInvalid, state.Kind)
	assert.Empty(t, g.Calls())
}

func TestSession_StaleResultIsSuppressed(t *testing.T) {
	g := newGatedLookuper()
	g.resps["old.example.com"] = &status.Response{Hostname: "old.example.com"}
	g.resps["new.example.com"] = &status.Response{Hostname: "new.example.com"}

	var (
		mu     sync.Mutex
		states []State
	)
	s := newTestSession(g, WithObserver(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	}))

	s.SetInput("old.example.com")
	s.Submit()
	s.SetInput("new.example.com")
	s.Submit()

	g.release("new.example.com")
	require.Eventually(t, func() bool { return s.State().Kind == KindResult }, time.Second, time.Millisecond)

	// the old lookup was cancelled; releasing it late changes nothing
	g.release("old.example.com")
	s.Wait()

	state := s.State()
	assert.Equal(t, "new.example.com", state.Data.Hostname)
	assert.ElementsMatch(t, []string{"old.example.com", "new.example.com"}, g.Calls())

	mu.Lock()
	defer mu.Unlock()
	for _, st := range states {
		assert.NotEqual(t, KindError, st.Kind, "a cancelled lookup never surfaces as an error")
		if st.Data != nil {
			assert.Equal(t, "new.example.com", st.Data.Hostname)
		}
	}
}

func TestSession_ClearCancelsLookup(t *testing.T) {
	g := newGatedLookuper()
	s := newTestSession(g)

	s.SetInput("hypixel.net")
	s.Submit()
	state := s.Clear()
	s.Wait()

	assert.Equal(t, State{Kind: KindEmpty, Generation: state.Generation}, s.State())
}

func TestSession_Timeout(t *testing.T) {
	g := newGatedLookuper()
	s := newTestSession(g, WithTimeout(10*time.Millisecond))

	s.SetInput("slow.example.com")
	s.Submit()
	s.Wait()

	state := s.State()
	assert.Equal(t, KindError, state.Kind)
	assert.Equal(t, ErrorKindNetwork, state.ErrorKind)
}

func TestSession_Close(t *testing.T) {
	g := newGatedLookuper()
	s := newTestSession(g)

	s.SetInput("hypixel.net")
	s.Submit()
	s.Close()

	assert.Equal(t, KindLoading, s.State().Kind, "closing leaves the last state untouched")
}

func TestSession_ParentCancelFailsLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newGatedLookuper()
	s := newTestSession(g, WithContext(ctx))

	s.SetInput("hypixel.net")
	require.Equal(t, KindLoading, s.Submit().Kind)
	cancel()
	s.Wait()

	state := s.State()
	assert.Equal(t, KindError, state.Kind, "the current lookup must not stay loading")
	assert.Equal(t, ErrorKindNetwork, state.ErrorKind)
}

func TestSession_ParentCancelIgnoresStaleLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newGatedLookuper()
	s := newTestSession(g, WithContext(ctx))

	s.SetInput("hypixel.net")
	s.Submit()
	state := s.SetInput("other.example.com")
	cancel()
	s.Wait()

	assert.Equal(t, KindValid, s.State().Kind)
	assert.Equal(t, state.Generation, s.State().Generation)
}
