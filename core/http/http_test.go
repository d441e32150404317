package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/kochabonline/mcstatus/errors"
)

type Response struct {
	Status string `json:"status"`
}

func TestRequest_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		assert.Equal(t, "mcstatus-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	cli := New(WithDefaultHeader(map[string]string{"User-Agent": "mcstatus-test"}))

	var response Response
	_, err := cli.Request(MethodGet, Url(srv.URL, WithUrlRefs("health")), nil, WithResponse(&response))
	require.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
}

func TestRequest_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	response := &Response{Status: "untouched"}
	_, err := New().Request(MethodGet, srv.URL, nil, WithResponse(response))
	require.NoError(t, err)
	assert.Equal(t, "untouched", response.Status)
}

func TestRequest_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New().Request(MethodGet, srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, kerrors.Code(err))
	assert.Equal(t, ReasonUnexpectedStatus, kerrors.Reason(err))
	assert.Equal(t, "429", kerrors.FromError(err).GetMetadata()["status"])
}

func TestRequest_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":`))
	}))
	defer srv.Close()

	var response Response
	_, err := New().Request(MethodGet, srv.URL, nil, WithResponse(&response))
	require.Error(t, err)
	assert.Equal(t, ReasonDecode, kerrors.Reason(err))
}

func TestRequest_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New().Request(MethodGet, srv.URL, nil, WithContext(ctx))
	require.Error(t, err)
	assert.Equal(t, ReasonTransport, kerrors.Reason(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequest_JSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := New(WithTimeout(time.Second)).Request(MethodPost, srv.URL, map[string]string{"address": "hypixel.net"})
	assert.NoError(t, err)
}

func TestUrl(t *testing.T) {
	assert.Equal(t,
		"https://api.mcsrvstat.us/3/192.168.1.1%3A25565",
		Url("https://api.mcsrvstat.us/3/", WithUrlRefs("192.168.1.1:25565")))
	assert.Equal(t,
		"https://api.mcsrvstat.us/3/hypixel.net",
		Url("https://api.mcsrvstat.us/3", WithUrlRefs("hypixel.net")))
	assert.Equal(t,
		"http://localhost:8080/api/v1/health?verbose=1",
		Url("http://localhost:8080/api", WithUrlRefs("v1", "health"), WithUrlParams(map[string]string{"verbose": "1"})))
	assert.Equal(t, "", Url("://bad"))
}
