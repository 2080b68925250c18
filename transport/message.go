package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request is an outgoing exchange that interceptors may mutate before it is sent.
type Request struct {
	Method string
	// URL is compared verbatim by interceptors; query parameters live inside it.
	URL    string
	Header http.Header
	// Form holds body fields. It is form-encoded when Body is nil.
	Form url.Values
	Body []byte
	// Redirect overrides the client's redirect policy for this request.
	Redirect *RedirectPolicy
}

func NewRequest(method, rawURL string) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		URL:    rawURL,
		Header: make(http.Header),
		Form:   make(url.Values),
	}
}

// Is reports whether the request uses method and targets rawURL exactly.
func (r *Request) Is(method, rawURL string) bool {
	return r.Method == method && r.URL == rawURL
}

// QueryParam returns the first value of key in the URL query.
func (r *Request) QueryParam(key string) string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}

// SetQueryParam replaces key in the URL query, re-encoding the URL.
func (r *Request) SetQueryParam(key, value string) error {
	u, err := url.Parse(r.URL)
	if err != nil {
		return fmt.Errorf("[Request SetQueryParam] parse %q: %w", r.URL, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	r.URL = u.String()
	return nil
}

// Response is a completed exchange handed to AfterComplete hooks.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Request    *Request
}

// IsRedirect reports whether the status code's leading digit is 3.
func (r *Response) IsRedirect() bool {
	return r.StatusCode/100 == 3
}

// Location returns the Location header, or "" when absent.
func (r *Response) Location() string {
	return r.Header.Get("Location")
}
