package cookies

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// SessionCookieSet maps lower-cased cookie names to the cookies a login
// response set. Names keep their first-seen position; values are last-wins.
type SessionCookieSet struct {
	names   []string
	cookies map[string]*http.Cookie
}

func NewSessionCookieSet() *SessionCookieSet {
	return &SessionCookieSet{cookies: make(map[string]*http.Cookie)}
}

// FromHeader builds a set from every Set-Cookie line in h.
// Lines that do not parse are skipped.
func FromHeader(h http.Header) *SessionCookieSet {
	s := NewSessionCookieSet()
	for _, line := range h.Values(setCookieHeader) {
		c, err := ParseSetCookie(line)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping malformed Set-Cookie line")
			continue
		}
		s.Add(c)
	}
	return s
}

func (s *SessionCookieSet) Add(c *http.Cookie) {
	key := strings.ToLower(c.Name)
	if _, ok := s.cookies[key]; !ok {
		s.names = append(s.names, key)
	}
	s.cookies[key] = c
}

// Get looks a cookie up by name, ignoring case.
func (s *SessionCookieSet) Get(name string) (*http.Cookie, bool) {
	c, ok := s.cookies[strings.ToLower(name)]
	return c, ok
}

// Value returns the named cookie's value or "".
func (s *SessionCookieSet) Value(name string) string {
	if c, ok := s.Get(name); ok {
		return c.Value
	}
	return ""
}

func (s *SessionCookieSet) Len() int {
	return len(s.names)
}

// Names returns the lower-cased names in iteration order.
func (s *SessionCookieSet) Names() []string {
	return append([]string(nil), s.names...)
}

// Missing lists the required session cookies absent from the set, in declaration order.
func (s *SessionCookieSet) Missing() []string {
	var missing []string
	for _, name := range RequiredSessionCookies {
		if _, ok := s.cookies[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Valid reports whether csrftoken, sessionid and ds_user_id are all present.
func (s *SessionCookieSet) Valid() bool {
	return len(s.Missing()) == 0
}

// Header joins the set as a Cookie request header value.
func (s *SessionCookieSet) Header() string {
	pairs := make([]string, 0, len(s.names))
	for _, name := range s.names {
		pairs = append(pairs, HeaderValue(s.cookies[name]))
	}
	return strings.Join(pairs, "; ")
}
