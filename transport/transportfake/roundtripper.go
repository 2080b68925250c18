package transportfake

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

var ErrNoResponses = errors.New("transportfake: no queued responses")

var _ http.RoundTripper = (*RoundTripper)(nil)

// RoundTripper answers requests from a queue of canned responses and keeps
// a history of what was sent.
type RoundTripper struct {
	lock      sync.Mutex
	responses []*http.Response
	requests  []*http.Request
	bodies    [][]byte
}

func New(responses ...*http.Response) *RoundTripper {
	return &RoundTripper{responses: responses}
}

// Queue appends responses to be returned in order.
func (f *RoundTripper) Queue(responses ...*http.Response) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.responses = append(f.responses, responses...)
}

func (f *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)

	if len(f.responses) == 0 {
		return nil, ErrNoResponses
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]

	resp.Request = req
	if resp.Header == nil {
		resp.Header = make(http.Header)
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}
	return resp, nil
}

// Len returns how many requests were sent.
func (f *RoundTripper) Len() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.requests)
}

// Remaining returns how many queued responses were not consumed.
func (f *RoundTripper) Remaining() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return len(f.responses)
}

// Request returns the i-th sent request.
func (f *RoundTripper) Request(i int) *http.Request {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.requests[i]
}

// Body returns the body of the i-th sent request.
func (f *RoundTripper) Body(i int) []byte {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.bodies[i]
}

// Form parses the body of the i-th sent request as url-encoded fields.
func (f *RoundTripper) Form(i int) url.Values {
	values, _ := url.ParseQuery(string(f.Body(i)))
	return values
}

// Response builds a canned response. Each Set-Cookie entry becomes its own header line.
func Response(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// SetCookies builds a header with one Set-Cookie line per entry.
func SetCookies(lines ...string) http.Header {
	h := make(http.Header)
	for _, l := range lines {
		h.Add("Set-Cookie", l)
	}
	return h
}

// Redirect builds a 302 response pointing at location.
func Redirect(location string) *http.Response {
	return Response(http.StatusFound, http.Header{"Location": {location}}, "")
}
