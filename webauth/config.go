package webauth

import (
	"net/http"

	"github.com/jrsteele09/go-implicit-auth/internal/utils"
	"github.com/jrsteele09/go-implicit-auth/transport"
)

const (
	DefaultLoginAjaxURL = "https://www.instagram.com/accounts/login/ajax/"
	DefaultLoginPageURL = "https://www.instagram.com/ajax/bz"
	DefaultOrigin       = "https://www.instagram.com"
	DefaultReferer      = "https://www.instagram.com"
	DefaultProbeMethod  = http.MethodPost
)

// LoginRedirectPolicy is applied to the outgoing login POST.
var LoginRedirectPolicy = transport.RedirectPolicy{Max: 10, Strict: true, Referer: true}

// Config configures the session bootstrap. Every field is optional.
type Config struct {
	// LoginAjaxURL is the endpoint whose POSTs get decorated. Matched exactly.
	LoginAjaxURL string `yaml:"login_ajax_url"`
	// LoginPageURL is probed for a csrftoken cookie before each login.
	LoginPageURL string `yaml:"login_page_url"`
	Origin       string `yaml:"origin"`
	Referer      string `yaml:"referer"`
	// EnableCookie allows attaching a cookie jar when the client has none. Defaults to true.
	EnableCookie *bool `yaml:"enable_cookie"`
	// ProbeMethod is POST (analytics payload) or GET (empty body).
	ProbeMethod string `yaml:"probe_method"`
}

func (c Config) withDefaults() Config {
	if c.LoginAjaxURL == "" {
		c.LoginAjaxURL = DefaultLoginAjaxURL
	}
	if c.LoginPageURL == "" {
		c.LoginPageURL = DefaultLoginPageURL
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	if c.Referer == "" {
		c.Referer = DefaultReferer
	}
	if c.EnableCookie == nil {
		c.EnableCookie = utils.Ptr(true)
	}
	if c.ProbeMethod == "" {
		c.ProbeMethod = DefaultProbeMethod
	}
	return c
}

// CookiesEnabled reports the resolved enable_cookie setting.
func (c Config) CookiesEnabled() bool {
	return utils.ValueOr(c.EnableCookie, true)
}
