package status

import (
	"context"
	"time"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/core/http"
	"github.com/kochabonline/mcstatus/errors"
)

const (
	DefaultBaseURL   = "https://api.mcsrvstat.us/3/"
	DefaultUserAgent = "mcstatus/1.0"
)

// Lookuper fetches the status of a server address.
// A nil Response with a nil error means the API had no data for the address.
type Lookuper interface {
	Lookup(ctx context.Context, addr string) (*Response, error)
}

var _ Lookuper = (*Client)(nil)

// Client talks to the status API.
type Client struct {
	baseURL string
	cli     http.Clienter
}

type ClientOption func(*Client)

// WithBaseURL overrides the API base, mostly for tests.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(cli http.Clienter) ClientOption {
	return func(c *Client) {
		if cli != nil {
			c.cli = cli
		}
	}
}

func NewClient(timeout time.Duration, userAgent string, opts ...ClientOption) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		cli: http.New(
			http.WithTimeout(timeout),
			http.WithDefaultHeader(map[string]string{"User-Agent": userAgent}),
		),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL returns the request URL for addr: the base followed by the trimmed
// address escaped as one path segment.
func (c *Client) URL(addr string) string {
	return http.Url(c.baseURL, http.WithUrlRefs(address.Trim(addr)))
}

// Lookup validates addr and queries the API.
// Invalid input fails with INVALID_ADDRESS_FORMAT before any request is made.
func (c *Client) Lookup(ctx context.Context, addr string) (*Response, error) {
	if _, err := address.Parse(addr); err != nil {
		return nil, invalidAddress(err)
	}

	var resp *Response
	_, err := c.cli.Request(http.MethodGet, c.URL(addr), nil,
		http.WithContext(ctx),
		http.WithResponse(&resp),
	)
	if err != nil {
		switch errors.Reason(err) {
		case http.ReasonUnexpectedStatus:
			return nil, lookupHTTP(errors.Code(err), err)
		case http.ReasonDecode:
			return nil, errors.Wrap(err, 502, "lookup failed: malformed response").WithReason(ReasonLookupHTTP)
		default:
			return nil, lookupNetwork(err)
		}
	}

	return resp, nil
}
