package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"maps"
	"net/http"
	"strconv"
	"sync"
	"time"

	kerrors "github.com/kochabonline/mcstatus/errors"
)

const (
	MethodGet    = "GET"
	MethodHead   = "HEAD"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodPatch  = "PATCH" // RFC 5789
	MethodDelete = "DELETE"
)

// Reasons attached to errors returned by Client.Request.
const (
	ReasonUnexpectedStatus = "UNEXPECTED_STATUS"
	ReasonTransport        = "TRANSPORT"
	ReasonDecode           = "DECODE"
	ReasonEncode           = "ENCODE"
)

// maxErrorBody bounds how much of a non-2xx body is kept in the error.
const maxErrorBody = 4096

type Clienter interface {
	Request(method, url string, body any, opts ...func(*RequestOption)) (*http.Response, error)
}

type Client struct {
	client         *http.Client
	header         map[string]string
	requestOptPool sync.Pool
	bufferPool     sync.Pool
}

type Option func(*Client)

// WithClient sets the HTTP client.
func WithClient(client *http.Client) Option {
	return func(h *Client) {
		if client != nil {
			h.client = client
		}
	}
}

// WithTimeout sets the timeout of the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(h *Client) {
		h.client.Timeout = timeout
	}
}

// WithDefaultHeader sets headers sent with every request.
func WithDefaultHeader(header map[string]string) Option {
	return func(h *Client) {
		maps.Copy(h.header, header)
	}
}

// New creates a new HTTP.
func New(opts ...Option) *Client {
	h := &Client{
		client: &http.Client{},
		header: map[string]string{"Accept": "application/json"},
		requestOptPool: sync.Pool{
			New: func() any {
				return &RequestOption{
					header: make(map[string]string),
				}
			},
		},
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, 4096))
			},
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type RequestOption struct {
	ctx      context.Context
	header   map[string]string
	response any
}

// WithContext sets a custom context for this specific request.
func WithContext(ctx context.Context) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.ctx = ctx
	}
}

// WithHeader sets multiple headers.
func WithHeader(header map[string]string) func(*RequestOption) {
	return func(opt *RequestOption) {
		maps.Copy(opt.header, header)
	}
}

// WithResponse sets the object the 2xx body is decoded into.
// An empty body leaves it untouched.
func WithResponse(response any) func(*RequestOption) {
	return func(opt *RequestOption) {
		opt.response = response
	}
}

func (opt *RequestOption) reset() {
	opt.ctx = nil
	for k := range opt.header {
		delete(opt.header, k)
	}
	opt.response = nil
}

// Request sends an HTTP request and returns the response with its body closed.
//
// Errors are *errors.Error values: a non-2xx answer carries the response status
// as code and ReasonUnexpectedStatus, a failed round trip carries 503 and
// ReasonTransport, and an undecodable body carries 502 and ReasonDecode.
func (cli *Client) Request(method, url string, body any, opts ...func(*RequestOption)) (*http.Response, error) {
	opt := cli.requestOptPool.Get().(*RequestOption)
	opt.reset()
	defer cli.requestOptPool.Put(opt)

	maps.Copy(opt.header, cli.header)
	for _, o := range opts {
		o(opt)
	}

	ctx := opt.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	switch v := body.(type) {
	case nil:
	case io.Reader:
		reader = v
	default:
		buf := cli.bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer cli.bufferPool.Put(buf)

		if err := json.NewEncoder(buf).Encode(v); err != nil {
			return nil, kerrors.Wrap(err, 400, "encode request body").WithReason(ReasonEncode)
		}
		reader = buf
		if _, ok := opt.header["Content-Type"]; !ok {
			opt.header["Content-Type"] = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, kerrors.Wrap(err, 400, "create request").WithReason(ReasonEncode)
	}

	for k, v := range opt.header {
		req.Header.Set(k, v)
	}

	resp, err := cli.client.Do(req)
	if err != nil {
		return nil, kerrors.Wrap(err, 503, "do request").WithReason(ReasonTransport)
	}
	defer resp.Body.Close()

	// Check if the response status is not in the 2xx range
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := cli.bufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer cli.bufferPool.Put(buf)

		_, _ = io.Copy(buf, io.LimitReader(resp.Body, maxErrorBody))

		return nil, kerrors.New(resp.StatusCode, "%s", buf.String()).
			WithReason(ReasonUnexpectedStatus).
			WithMetadata(map[string]string{"status": strconv.Itoa(resp.StatusCode)})
	}

	if opt.response != nil {
		// Decode directly from response body to target object
		if err = json.NewDecoder(resp.Body).Decode(opt.response); err != nil && !errors.Is(err, io.EOF) {
			return nil, kerrors.Wrap(err, 502, "decode response body").WithReason(ReasonDecode)
		}
	}

	return resp, nil
}
