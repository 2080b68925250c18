package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client dispatches requests through an ordered chain of interceptors and
// follows redirects itself so AfterComplete hooks see every 3xx response first.
//
// The cookie jar is consulted only for requests that carry no Cookie header.
type Client struct {
	httpClient   *http.Client
	jar          http.CookieJar
	interceptors []Interceptor
	redirect     RedirectPolicy
}

var _ Pipeline = (*Client)(nil)

type Option func(*Client)

// WithHTTPClient sends through a copy of hc. Its CheckRedirect is replaced
// and its Jar, if any, becomes the client's cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		if cp.Jar != nil {
			c.jar = cp.Jar
			cp.Jar = nil
		}
		c.httpClient = &cp
	}
}

func WithRoundTripper(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

func WithRedirectPolicy(p RedirectPolicy) Option {
	return func(c *Client) {
		c.redirect = p
	}
}

func WithInterceptors(i ...Interceptor) Option {
	return func(c *Client) {
		c.Use(i...)
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		redirect:   DefaultRedirectPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Redirects are followed by Send so hooks run between hops.
	c.httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// Use appends interceptors, skipping any already attached.
func (c *Client) Use(interceptors ...Interceptor) {
	for _, i := range interceptors {
		if i == nil || c.Attached(i) {
			continue
		}
		c.interceptors = append(c.interceptors, i)
	}
}

func (c *Client) Attached(i Interceptor) bool {
	for _, existing := range c.interceptors {
		if existing == i {
			return true
		}
	}
	return false
}

func (c *Client) CookieJar() http.CookieJar {
	return c.jar
}

func (c *Client) SetCookieJar(jar http.CookieJar) {
	c.jar = jar
}

// Get sends a GET to rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.Send(ctx, NewRequest(http.MethodGet, rawURL))
}

// Post sends form as a url-encoded POST body to rawURL.
func (c *Client) Post(ctx context.Context, rawURL string, form map[string][]string) (*Response, error) {
	req := NewRequest(http.MethodPost, rawURL)
	for k, v := range form {
		req.Form[k] = append([]string(nil), v...)
	}
	return c.Send(ctx, req)
}

// Send runs the BeforeSend chain, performs the exchange and any redirects,
// running the AfterComplete chain on every response.
func (c *Client) Send(ctx context.Context, req *Request) (*Response, error) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	for _, i := range c.interceptors {
		if err := i.BeforeSend(ctx, req, c); err != nil {
			return nil, err
		}
	}

	policy := c.redirect
	if req.Redirect != nil {
		policy = *req.Redirect
	}

	current := req
	for hops := 0; ; hops++ {
		resp, err := c.roundTrip(ctx, current)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("method", current.Method).
			Str("url", current.URL).
			Int("status", resp.StatusCode).
			Int("hop", hops).
			Msg("Exchange completed")

		for _, i := range c.interceptors {
			if err := i.AfterComplete(ctx, resp, c); err != nil {
				return resp, err
			}
		}

		next, err := nextRedirect(current, resp, policy, hops)
		if err != nil {
			return resp, err
		}
		if next == nil {
			return resp, nil
		}
		current = next
	}
}

func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	header := req.Header.Clone()
	switch {
	case req.Body != nil:
		body = bytes.NewReader(req.Body)
	case len(req.Form) > 0:
		body = strings.NewReader(req.Form.Encode())
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("[Client roundTrip] build %s %s: %w", req.Method, req.URL, err)
	}
	hreq.Header = header
	if c.jar != nil && header.Get("Cookie") == "" {
		for _, cookie := range c.jar.Cookies(hreq.URL) {
			hreq.AddCookie(cookie)
		}
	}

	hresp, err := c.httpClient.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("[Client roundTrip] %s %s: %w", req.Method, req.URL, err)
	}
	defer hresp.Body.Close()

	if c.jar != nil {
		if rc := hresp.Cookies(); len(rc) > 0 {
			c.jar.SetCookies(hreq.URL, rc)
		}
	}

	data, err := io.ReadAll(hresp.Body)
	if err != nil {
		return nil, fmt.Errorf("[Client roundTrip] read body: %w", err)
	}

	return &Response{
		StatusCode: hresp.StatusCode,
		Header:     hresp.Header,
		Body:       data,
		Request:    req,
	}, nil
}
