// Package implicit drives an implicit grant against a provider whose
// authorize page expects a logged in browser session, and harvests the
// access token from the redirect fragment.
package implicit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jrsteele09/go-implicit-auth/cookies"
	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
	"github.com/jrsteele09/go-implicit-auth/oauthmodel"
	"github.com/jrsteele09/go-implicit-auth/transport"
	"github.com/jrsteele09/go-implicit-auth/webauth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Flow is the authorization flow interceptor. It owns a webauth.Interceptor
// and forwards pipeline events to it unless that instance is attached to the
// pipeline already.
type Flow struct {
	config  Config
	webauth *webauth.Interceptor

	lock        sync.RWMutex
	accessToken string

	// serializes Authorize so a reset token slot is not observed by another run
	authorizeLock sync.Mutex
}

var _ transport.Interceptor = (*Flow)(nil)

// New validates config and builds a Flow. A nil w is replaced by a
// webauth.Interceptor with default configuration.
func New(config Config, w *webauth.Interceptor) (*Flow, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()
	if err := config.authorizeParameters("").Validate(); err != nil {
		return nil, fmt.Errorf("[implicit New] %w: %w", ErrConfiguration, err)
	}
	if w == nil {
		w = webauth.New(webauth.Config{})
	}
	return &Flow{config: config, webauth: w}, nil
}

// Config returns the resolved configuration.
func (f *Flow) Config() Config {
	return f.config
}

// WebAuth returns the owned session bootstrap interceptor.
func (f *Flow) WebAuth() *webauth.Interceptor {
	return f.webauth
}

// AccessToken returns the last captured token, or "" when none was captured.
func (f *Flow) AccessToken() string {
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.accessToken
}

func (f *Flow) SetAccessToken(token string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.accessToken = token
}

func (f *Flow) BeforeSend(ctx context.Context, req *transport.Request, p transport.Pipeline) error {
	req.URL = CanonicalURL(req.URL)

	if !p.Attached(f.webauth) {
		if err := f.webauth.BeforeSend(ctx, req, p); err != nil {
			return err
		}
	}

	if !req.Is(http.MethodPost, f.config.AuthorizeURL) {
		return nil
	}
	return f.decorateAuthorize(ctx, req, p)
}

// decorateAuthorize logs in and, when the login produced a complete session,
// turns req into an authorize submission for that session.
func (f *Flow) decorateAuthorize(ctx context.Context, req *transport.Request, p transport.Pipeline) error {
	logger := loggerFrom(ctx)

	login := transport.NewRequest(http.MethodPost, f.webauth.LoginURL())
	login.Form.Set(oauthmodel.FieldUsername, f.config.Username)
	login.Form.Set(oauthmodel.FieldPassword, f.config.Password)

	resp, err := p.Send(ctx, login)
	if err != nil {
		return ierrors.Wrapf(err, "[Flow BeforeSend] login")
	}

	session := cookies.FromHeader(resp.Header)
	if !session.Valid() {
		logger.Warn().
			Int("status", resp.StatusCode).
			Strs("missing_cookies", session.Missing()).
			Msg("Login did not return a session, authorize request left unchanged")
		return nil
	}

	params := f.config.authorizeParameters(session.Value(cookies.CSRFToken))

	u, err := url.Parse(req.URL)
	if err != nil {
		return ierrors.Wrapf(err, "[Flow BeforeSend] parse authorize url")
	}
	query := u.Query()
	params.ApplyQuery(query)
	u.RawQuery = query.Encode()
	req.URL = u.String()

	if req.Form == nil {
		req.Form = make(url.Values)
	}
	params.ApplyForm(req.Form)

	req.Header.Set("Cookie", session.Header())
	req.Header.Set("Origin", f.config.Origin)
	req.Header.Set("Referer", f.config.Origin)

	logger.Debug().Strs("cookies", session.Names()).Msg("Authorize request decorated with session")
	return nil
}

func (f *Flow) AfterComplete(ctx context.Context, resp *transport.Response, p transport.Pipeline) error {
	if !p.Attached(f.webauth) {
		if err := f.webauth.AfterComplete(ctx, resp, p); err != nil {
			return err
		}
	}

	if !resp.IsRedirect() || resp.Location() == "" {
		return nil
	}

	token, ok := tokenFromLocation(resp.Location())
	if !ok {
		return nil
	}

	f.SetAccessToken(token)
	resp.Header.Del("Location")
	loggerFrom(ctx).Info().Int("token_length", len(token)).Msg("Access token captured from redirect")
	return nil
}

// tokenFromLocation reads the token from a fragment starting with
// access_token. The token is everything after the fragment's first "=".
func tokenFromLocation(location string) (string, bool) {
	_, fragment, found := strings.Cut(location, "#")
	if !found || !strings.HasPrefix(fragment, oauthmodel.AccessTokenFragment) {
		return "", false
	}
	_, token, _ := strings.Cut(fragment, "=")
	return token, true
}

func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
