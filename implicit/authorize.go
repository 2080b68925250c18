package implicit

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
	"github.com/jrsteele09/go-implicit-auth/transport"
	"golang.org/x/oauth2"
)

const bearerTokenType = "Bearer"

// Authorize attaches f to c if needed, posts to the authorize URL and returns
// the token captured from the redirect. When no token is captured the
// previous value of AccessToken is restored and ErrNoAccessToken is returned.
func (f *Flow) Authorize(ctx context.Context, c *transport.Client) (*oauth2.Token, error) {
	f.authorizeLock.Lock()
	defer f.authorizeLock.Unlock()

	logger := loggerFrom(ctx).With().Str("flow_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	c.Use(f)

	previous := f.AccessToken()
	f.SetAccessToken("")

	logger.Debug().Str("authorize_url", f.config.AuthorizeURL).Msg("Starting implicit grant")
	resp, err := c.Send(ctx, transport.NewRequest(http.MethodPost, f.config.AuthorizeURL))
	if err != nil {
		f.SetAccessToken(previous)
		return nil, ierrors.Wrapf(err, "[Flow Authorize]")
	}

	raw := f.AccessToken()
	if raw == "" {
		f.SetAccessToken(previous)
		return nil, ierrors.Wrapf(ErrNoAccessToken, "[Flow Authorize] status %d", resp.StatusCode)
	}

	token := &oauth2.Token{AccessToken: raw, TokenType: bearerTokenType}
	if claims, ok := InspectToken(raw); ok && !claims.ExpiresAt.IsZero() {
		token.Expiry = claims.ExpiresAt
	}
	logger.Info().Time("expiry", token.Expiry).Msg("Implicit grant completed")
	return token, nil
}

// TokenSource returns a source that runs Authorize whenever the cached
// token is missing or expired.
func (f *Flow) TokenSource(ctx context.Context, c *transport.Client) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &flowTokenSource{ctx: ctx, flow: f, client: c})
}

type flowTokenSource struct {
	ctx    context.Context
	flow   *Flow
	client *transport.Client
}

func (s *flowTokenSource) Token() (*oauth2.Token, error) {
	return s.flow.Authorize(s.ctx, s.client)
}
