package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
)

// RedirectPolicy controls how the client follows 3xx responses.
type RedirectPolicy struct {
	// Max is the number of hops allowed. Zero disables following.
	Max int
	// Strict keeps the method and body on 301 and 302 instead of switching to GET.
	Strict bool
	// Referer sets the Referer header to the previous URL on each hop.
	Referer bool
}

var DefaultRedirectPolicy = RedirectPolicy{Max: 5}

// nextRedirect builds the request for the next hop, or returns nil when resp
// should be handed back to the caller.
func nextRedirect(prev *Request, resp *Response, policy RedirectPolicy, hops int) (*Request, error) {
	location := resp.Location()
	if !resp.IsRedirect() || location == "" || policy.Max <= 0 {
		return nil, nil
	}
	if hops >= policy.Max {
		return nil, ierrors.Wrapf(ierrors.ErrTooManyRedirects, "[transport redirect] will not follow more than %d redirects", policy.Max)
	}

	base, err := url.Parse(prev.URL)
	if err != nil {
		return nil, fmt.Errorf("[transport redirect] parse %q: %w", prev.URL, err)
	}
	target, err := base.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("[transport redirect] parse Location %q: %w", location, err)
	}

	next := &Request{
		Method:   prev.Method,
		URL:      target.String(),
		Header:   prev.Header.Clone(),
		Form:     cloneValues(prev.Form),
		Body:     prev.Body,
		Redirect: prev.Redirect,
	}

	if !sameOrSubdomain(base.Hostname(), target.Hostname()) {
		for _, h := range crossHostHeaders {
			next.Header.Del(h)
		}
	}

	hasBody := len(prev.Body) > 0 || len(prev.Form) > 0
	if resp.StatusCode == http.StatusSeeOther || (resp.StatusCode <= http.StatusFound && hasBody && !policy.Strict) {
		next.Method = http.MethodGet
		next.Form = make(url.Values)
		next.Body = nil
		next.Header.Del("Content-Type")
		next.Header.Del("Content-Length")
	}

	if policy.Referer && !(base.Scheme == "https" && target.Scheme == "http") {
		referer := *base
		referer.User = nil
		referer.Fragment = ""
		next.Header.Set("Referer", referer.String())
	}

	return next, nil
}

// crossHostHeaders are dropped when a hop leaves the previous host. The jar
// still supplies cookies scoped to the new host.
var crossHostHeaders = []string{"Cookie", "Authorization", "Origin"}

// sameOrSubdomain reports whether target is host or one of its subdomains.
func sameOrSubdomain(host, target string) bool {
	if strings.EqualFold(host, target) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(target), "."+strings.ToLower(host))
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
