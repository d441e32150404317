package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kochabonline/mcstatus/status"
	transhttp "github.com/kochabonline/mcstatus/transport/http"
)

type envelope struct {
	Code     int               `json:"code"`
	Data     json.RawMessage   `json:"data"`
	Message  string            `json:"message"`
	Reason   string            `json:"reason"`
	Metadata map[string]string `json:"metadata"`
}

// stubLookuper answers from fixed maps and records every address it sees.
type stubLookuper struct {
	mu    sync.Mutex
	resps map[string]*status.Response
	errs  map[string]error
	calls []string
}

func (s *stubLookuper) Lookup(_ context.Context, addr string) (*status.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, addr)
	return s.resps[addr], s.errs[addr]
}

func (s *stubLookuper) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func newTestRouter(registers ...transhttp.GinRegister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := transhttp.NewHandler("/api/v1")
	h.Add(registers...)
	h.Register(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
