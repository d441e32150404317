package session

import (
	"context"
	"sync"
	"time"

	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/status"
)

// Observer is notified after every state change. It runs with the session
// locked and must not call back into the Session.
type Observer func(State)

// Session owns the state of one input surface. Each lookup gets its own
// context and generation token; results for an older generation are dropped.
type Session struct {
	mu       sync.Mutex
	state    State
	lookuper status.Lookuper
	ctx      context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
	observer Observer
	log      *log.Logger
	wg       sync.WaitGroup
}

type Option func(*Session)

// WithObserver sets the state change callback.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithContext sets the parent context of every lookup.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithTimeout bounds each lookup.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.timeout = timeout
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

func New(lookuper status.Lookuper, opts ...Option) *Session {
	s := &Session{
		state:    State{Kind: KindEmpty},
		lookuper: lookuper,
		ctx:      context.Background(),
		log:      log.L,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) SetInput(raw string) State {
	return s.Dispatch(InputChanged{Raw: raw})
}

func (s *Session) Submit() State {
	return s.Dispatch(Submit{})
}

func (s *Session) Clear() State {
	return s.Dispatch(Clear{})
}

// Dispatch applies ev and performs the resulting effect.
func (s *Session) Dispatch(ev Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, effect := Transition(prev, ev)
	s.state = next

	switch effect.Kind {
	case EffectCancelLookup:
		s.cancelLocked()
	case EffectStartLookup:
		s.cancelLocked()
		s.startLocked(effect)
	}

	if next != prev && s.observer != nil {
		s.observer(next)
	}

	return next
}

// Wait blocks until every started lookup goroutine has returned.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the in-flight lookup and waits for it to return.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) startLocked(effect Effect) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(s.ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(s.ctx)
	}
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		resp, err := s.lookuper.Lookup(ctx, effect.Address)
		if err != nil {
			// 被本会话取消的查询已过期，父context取消则按失败处理
			if ctx.Err() == context.Canceled && s.ctx.Err() == nil {
				s.log.Debug().Uint64("token", effect.Token).Str("address", effect.Address).Msg("stale lookup cancelled")
				return
			}
			s.Dispatch(LookupFailed{Token: effect.Token, Err: err})
			return
		}
		s.Dispatch(LookupResolved{Token: effect.Token, Data: resp})
	}()
}
