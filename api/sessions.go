package api

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochabonline/mcstatus/core/tools"
	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/session"
	"github.com/kochabonline/mcstatus/status"
	"github.com/kochabonline/mcstatus/transport/http/response"
	"github.com/kochabonline/mcstatus/validator"
)

const (
	DefaultMaxSessions = 1024
	DefaultIdleTTL     = 10 * time.Minute
)

var (
	ErrSessionNotFound = errors.NotFound("session not found").WithReason("SESSION_NOT_FOUND")
	ErrTooManySessions = errors.TooManyRequests("too many sessions").WithReason("TOO_MANY_SESSIONS")
)

type SessionUri struct {
	Id string `uri:"id" json:"id" validate:"required,uuid"`
}

type InputRequest struct {
	Input string `json:"input"`
}

// SessionResponse is a session state plus its rendered result, if any.
type SessionResponse struct {
	Id    string        `json:"id"`
	State session.State `json:"state"`
	View  *status.View  `json:"view,omitempty"`
}

// SessionHandler keeps input sessions in memory keyed by uuid.
type SessionHandler struct {
	lookuper    status.Lookuper
	timeout     time.Duration
	maxSessions int
	idleTTL     time.Duration
	active      prometheus.Gauge
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	session *session.Session
	touched time.Time
}

type SessionOption func(*SessionHandler)

func WithLookupTimeout(timeout time.Duration) SessionOption {
	return func(h *SessionHandler) {
		h.timeout = timeout
	}
}

func WithMaxSessions(n int) SessionOption {
	return func(h *SessionHandler) {
		if n > 0 {
			h.maxSessions = n
		}
	}
}

// WithIdleTTL drops sessions nobody has touched for ttl. Zero keeps them
// until they are deleted.
func WithIdleTTL(ttl time.Duration) SessionOption {
	return func(h *SessionHandler) {
		if ttl >= 0 {
			h.idleTTL = ttl
		}
	}
}

// WithActiveGauge reports the number of open sessions.
func WithActiveGauge(g prometheus.Gauge) SessionOption {
	return func(h *SessionHandler) {
		h.active = g
	}
}

func NewSessionHandler(lookuper status.Lookuper, opts ...SessionOption) *SessionHandler {
	h := &SessionHandler{
		lookuper:    lookuper,
		maxSessions: DefaultMaxSessions,
		idleTTL:     DefaultIdleTTL,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *SessionHandler) Register(r gin.IRouter) {
	g := r.Group("/sessions")
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/input", h.input)
	g.DELETE("/:id/input", h.clear)
	g.POST("/:id/submit", h.submit)
}

// Close cancels every in-flight lookup and drops all sessions.
func (h *SessionHandler) Close(_ context.Context) error {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*sessionEntry)
	h.setActiveLocked()
	h.mu.Unlock()

	for _, e := range sessions {
		e.session.Close()
	}
	return nil
}

// evictIdleLocked removes expired sessions and returns them for closing
// outside the lock.
func (h *SessionHandler) evictIdleLocked() []*session.Session {
	if h.idleTTL <= 0 {
		return nil
	}

	var evicted []*session.Session
	deadline := h.now().Add(-h.idleTTL)
	for id, e := range h.sessions {
		if e.touched.Before(deadline) {
			delete(h.sessions, id)
			evicted = append(evicted, e.session)
		}
	}
	if len(evicted) > 0 {
		h.setActiveLocked()
	}
	return evicted
}

func (h *SessionHandler) setActiveLocked() {
	if h.active != nil {
		h.active.Set(float64(len(h.sessions)))
	}
}

func (h *SessionHandler) lookup(c *gin.Context) (string, *session.Session, bool) {
	var uri SessionUri
	if err := validator.GinShouldBindUri(c, &uri); err != nil {
		response.GinJSONError(c, err)
		return "", nil, false
	}

	h.mu.Lock()
	e, ok := h.sessions[uri.Id]
	expired := ok && h.idleTTL > 0 && e.touched.Before(h.now().Add(-h.idleTTL))
	if expired {
		delete(h.sessions, uri.Id)
		h.setActiveLocked()
	} else if ok {
		e.touched = h.now()
	}
	h.mu.Unlock()

	if expired {
		e.session.Close()
		ok = false
	}
	if !ok {
		response.GinJSONError(c, ErrSessionNotFound)
		return "", nil, false
	}
	return uri.Id, e.session, true
}

func render(id string, state session.State) SessionResponse {
	resp := SessionResponse{Id: id, State: state}
	if state.Kind == session.KindResult && state.Data != nil {
		view := status.NewView(state.Data)
		resp.View = &view
	}
	return resp
}

func (h *SessionHandler) create(c *gin.Context) {
	h.mu.Lock()
	evicted := h.evictIdleLocked()
	full := len(h.sessions) >= h.maxSessions

	var (
		id string
		s  *session.Session
	)
	if !full {
		id = tools.Id()
		s = session.New(h.lookuper, session.WithTimeout(h.timeout))
		h.sessions[id] = &sessionEntry{session: s, touched: h.now()}
		h.setActiveLocked()
	}
	h.mu.Unlock()

	for _, e := range evicted {
		e.Close()
	}

	if full {
		response.GinJSONError(c, ErrTooManySessions)
		return
	}
	response.GinJSON(c, render(id, s.State()))
}

func (h *SessionHandler) get(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}
	response.GinJSON(c, render(id, s.State()))
}

func (h *SessionHandler) delete(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}

	h.mu.Lock()
	delete(h.sessions, id)
	h.setActiveLocked()
	h.mu.Unlock()

	s.Close()
	response.GinJSON(c, nil)
}

func (h *SessionHandler) input(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req InputRequest
	if err := validator.GinShouldBindJSON(c, &req); err != nil {
		response.GinJSONError(c, err)
		return
	}

	response.GinJSON(c, render(id, s.SetInput(req.Input)))
}

func (h *SessionHandler) clear(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}
	response.GinJSON(c, render(id, s.Clear()))
}

// submit answers with Invalid state and no lookup when the input is
// malformed; clients poll GET for the outcome of a started lookup.
func (h *SessionHandler) submit(c *gin.Context) {
	id, s, ok := h.lookup(c)
	if !ok {
		return
	}
	response.GinJSON(c, render(id, s.Submit()))
}
