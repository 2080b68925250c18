// Package cookies extracts the provider's session artifacts from Set-Cookie
// headers and renders them back into Cookie request headers.
package cookies

import (
	"fmt"
	"net/http"
	"strings"
)

// Cookie names issued by the provider's login surface.
const (
	CSRFToken = "csrftoken"
	SessionID = "sessionid"
	DSUserID  = "ds_user_id"
)

// RequiredSessionCookies is the minimal set proving an authenticated session.
var RequiredSessionCookies = []string{CSRFToken, SessionID, DSUserID}

const setCookieHeader = "Set-Cookie"

// ParseSetCookie parses a single Set-Cookie header line.
func ParseSetCookie(line string) (*http.Cookie, error) {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return nil, fmt.Errorf("[cookies ParseSetCookie] %q: %w", line, err)
	}
	return c, nil
}

// FirstSetCookie returns the first cookie of the first Set-Cookie line in h.
// It returns nil when h carries no parseable Set-Cookie value.
func FirstSetCookie(h http.Header) *http.Cookie {
	lines := h.Values(setCookieHeader)
	if len(lines) == 0 {
		return nil
	}
	c, err := ParseSetCookie(lines[0])
	if err != nil {
		return nil
	}
	return c
}

// HeaderValue renders name=value, quoting values that contain a separator.
func HeaderValue(c *http.Cookie) string {
	return c.Name + "=" + quoteValue(c.Value)
}

func quoteValue(v string) string {
	if strings.HasPrefix(v, `"`) || strings.HasSuffix(v, `"`) {
		return v
	}
	if strings.ContainsAny(v, ";,=") {
		return `"` + v + `"`
	}
	return v
}
