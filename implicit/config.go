package implicit

import (
	"github.com/jrsteele09/go-implicit-auth/oauthmodel"
)

const (
	DefaultScope        = "likes+comments"
	DefaultAuthorizeURL = "https://www.instagram.com/oauth/authorize"
	DefaultOrigin       = "https://www.instagram.com"
)

// Config drives the implicit grant. Username, Password, ClientID and
// RedirectURI are required.
type Config struct {
	Username     string                  `yaml:"username"`
	Password     string                  `yaml:"password"`
	ClientID     string                  `yaml:"client_id"`
	RedirectURI  string                  `yaml:"redirect_uri"`
	ResponseType oauthmodel.ResponseType `yaml:"response_type"`
	// Scope is kept for callers that need it. The provider derives the
	// granted scope from the client registration, so it is not sent.
	Scope        string `yaml:"scope"`
	AuthorizeURL string `yaml:"authorize_url"`
	Origin       string `yaml:"origin"`
}

func (c Config) withDefaults() Config {
	if c.ResponseType == "" {
		c.ResponseType = oauthmodel.TokenResponseType
	}
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.AuthorizeURL == "" {
		c.AuthorizeURL = DefaultAuthorizeURL
	}
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	return c
}

// Validate reports every missing required key at once.
func (c Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"username", c.Username},
		{"password", c.Password},
		{"client_id", c.ClientID},
		{"redirect_uri", c.RedirectURI},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingKeysError{Keys: missing}
	}
	return nil
}

func (c Config) authorizeParameters(csrf string) oauthmodel.AuthorizeParameters {
	return oauthmodel.AuthorizeParameters{
		ResponseType:        c.ResponseType,
		ClientID:            c.ClientID,
		RedirectURI:         c.RedirectURI,
		CSRFMiddlewareToken: csrf,
	}
}
