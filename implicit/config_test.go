package implicit_test

import (
	"errors"
	"testing"

	"github.com/jrsteele09/go-implicit-auth/implicit"
	"github.com/jrsteele09/go-implicit-auth/oauthmodel"
	"github.com/jrsteele09/go-implicit-auth/webauth"
	"github.com/stretchr/testify/require"
)

func validConfig() implicit.Config {
	return implicit.Config{
		Username:    "foo",
		Password:    "bar",
		ClientID:    "foo",
		RedirectURI: "bar",
	}
}

func TestNew_MissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		config  implicit.Config
		missing []string
	}{
		{
			name:    "empty",
			config:  implicit.Config{},
			missing: []string{"username", "password", "client_id", "redirect_uri"},
		},
		{
			name:    "username only",
			config:  implicit.Config{Username: "foo"},
			missing: []string{"password", "client_id", "redirect_uri"},
		},
		{
			name:    "no redirect uri",
			config:  implicit.Config{Username: "foo", Password: "bar", ClientID: "foo"},
			missing: []string{"redirect_uri"},
		},
		{
			name:    "no password and client id",
			config:  implicit.Config{Username: "foo", RedirectURI: "bar"},
			missing: []string{"password", "client_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow, err := implicit.New(tt.config, nil)
			require.Nil(t, flow)
			require.ErrorIs(t, err, implicit.ErrConfiguration)

			var mk *implicit.MissingKeysError
			require.True(t, errors.As(err, &mk))
			require.Equal(t, tt.missing, mk.Keys)
		})
	}
}

func TestNew_MissingKeysMessage(t *testing.T) {
	_, err := implicit.New(implicit.Config{}, webauth.New(webauth.Config{}))
	require.EqualError(t, err, "Config is missing the following keys: username, password, client_id, redirect_uri")
}

func TestNew_Defaults(t *testing.T) {
	flow, err := implicit.New(validConfig(), nil)
	require.NoError(t, err)

	cfg := flow.Config()
	require.Equal(t, "foo", cfg.Username)
	require.Equal(t, "bar", cfg.Password)
	require.Equal(t, "foo", cfg.ClientID)
	require.Equal(t, "bar", cfg.RedirectURI)
	require.Equal(t, oauthmodel.TokenResponseType, cfg.ResponseType)
	require.Equal(t, "likes+comments", cfg.Scope)
	require.Equal(t, "https://www.instagram.com/oauth/authorize", cfg.AuthorizeURL)
	require.Equal(t, "https://www.instagram.com", cfg.Origin)
	require.Equal(t, "", flow.AccessToken())
}

func TestNew_InvalidResponseType(t *testing.T) {
	cfg := validConfig()
	cfg.ResponseType = "id_token"

	_, err := implicit.New(cfg, nil)
	require.ErrorIs(t, err, implicit.ErrConfiguration)
	require.ErrorIs(t, err, oauthmodel.ErrInvalidResponseType)
}

func TestNew_WebAuthSuppliedOrCreated(t *testing.T) {
	supplied := webauth.New(webauth.Config{})

	withSupplied, err := implicit.New(validConfig(), supplied)
	require.NoError(t, err)
	require.Same(t, supplied, withSupplied.WebAuth())

	created, err := implicit.New(validConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, created.WebAuth())
	require.NotSame(t, supplied, created.WebAuth())
}
