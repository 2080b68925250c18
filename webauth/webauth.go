// Package webauth makes a login POST look like it came from a browser
// session: it guarantees a cookie jar, fetches a csrftoken from the login
// page and decorates the outgoing login request with it.
package webauth

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/jrsteele09/go-implicit-auth/cookies"
	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
	"github.com/jrsteele09/go-implicit-auth/oauthmodel"
	"github.com/jrsteele09/go-implicit-auth/transport"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

// Interceptor is the session bootstrap. It only shapes outgoing requests.
type Interceptor struct {
	config Config
	newJar func() (http.CookieJar, error)
	now    func() time.Time
}

var _ transport.Interceptor = (*Interceptor)(nil)

func New(config Config) *Interceptor {
	return &Interceptor{
		config: config.withDefaults(),
		newJar: newCookieJar,
		now:    time.Now,
	}
}

func newCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// Config returns the resolved configuration.
func (w *Interceptor) Config() Config {
	return w.config
}

// LoginURL is the endpoint whose POSTs this interceptor decorates.
func (w *Interceptor) LoginURL() string {
	return w.config.LoginAjaxURL
}

func (w *Interceptor) BeforeSend(ctx context.Context, req *transport.Request, p transport.Pipeline) error {
	if err := w.ensureCookieJar(p); err != nil {
		return err
	}

	if !req.Is(http.MethodPost, w.config.LoginAjaxURL) {
		return nil
	}

	if req.Form.Get(oauthmodel.FieldUsername) == "" || req.Form.Get(oauthmodel.FieldPassword) == "" {
		return ierrors.Wrapf(ErrCredentialsMissing, "[WebAuth BeforeSend] POST %s", req.URL)
	}

	csrf, err := w.fetchCSRFToken(ctx, p)
	if err != nil {
		return err
	}

	req.Form.Set(oauthmodel.FieldIntent, "")
	req.Header.Set("X-CSRFToken", csrf.Value)
	req.Header.Set("Cookie", cookies.CSRFToken+"="+csrf.Value)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Origin", w.config.Origin)
	req.Header.Set("Referer", w.config.Referer)

	policy := LoginRedirectPolicy
	req.Redirect = &policy

	log.Debug().Str("url", req.URL).Msg("Login request decorated with csrftoken")
	return nil
}

func (w *Interceptor) AfterComplete(ctx context.Context, resp *transport.Response, p transport.Pipeline) error {
	return nil
}

func (w *Interceptor) ensureCookieJar(p transport.Pipeline) error {
	if p.CookieJar() != nil {
		return nil
	}
	if !w.config.CookiesEnabled() {
		return ierrors.Wrapf(ErrCookiesDisabled, "[WebAuth ensureCookieJar]")
	}
	jar, err := w.newJar()
	if err != nil {
		return ierrors.Wrapf(err, "[WebAuth ensureCookieJar] create cookie jar")
	}
	p.SetCookieJar(jar)
	return nil
}

// fetchCSRFToken probes the login page and returns its csrftoken cookie.
func (w *Interceptor) fetchCSRFToken(ctx context.Context, p transport.Pipeline) (*http.Cookie, error) {
	probe := transport.NewRequest(w.config.ProbeMethod, w.config.LoginPageURL)
	if probe.Method == http.MethodPost {
		payload, err := probePayload(w.config.Origin, w.now())
		if err != nil {
			return nil, ierrors.Wrapf(err, "[WebAuth fetchCSRFToken] build probe payload")
		}
		probe.Body = payload
	}
	probe.Header.Set("X-Requested-With", "XMLHttpRequest")
	probe.Header.Set("Origin", w.config.Origin)

	resp, err := p.Send(ctx, probe)
	if err != nil {
		return nil, ierrors.Wrapf(err, "[WebAuth fetchCSRFToken] %s %s", probe.Method, probe.URL)
	}

	csrf := cookies.FirstSetCookie(resp.Header)
	if csrf == nil || csrf.Name != cookies.CSRFToken {
		return nil, ierrors.Wrapf(ErrMissingCSRFToken, "[WebAuth fetchCSRFToken] %s", probe.URL)
	}
	return csrf, nil
}
