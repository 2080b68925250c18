package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/jrsteele09/go-implicit-auth/implicit"
	"github.com/jrsteele09/go-implicit-auth/internal/config"
	"github.com/jrsteele09/go-implicit-auth/internal/tokencache"
	"github.com/jrsteele09/go-implicit-auth/transport"
	"github.com/jrsteele09/go-implicit-auth/webauth"
	"github.com/jxskiss/mcli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const requestTimeout = 30 * time.Second

type CommonOptions struct {
	Config      string        `cli:"#O, -f, --config, YAML configuration file"`
	Username    string        `cli:"#O, -u, --user, Username (or IMPLICIT_USERNAME)"`
	Password    string        `cli:"#O, -p, --pass, Password (or IMPLICIT_PASSWORD)"`
	ClientID    string        `cli:"#O, -c, --client, Client ID (or IMPLICIT_CLIENT_ID)"`
	RedirectURI string        `cli:"#O, -r, --redirect, Redirect URI (or IMPLICIT_REDIRECT_URI)"`
	NoCache     bool          `cli:"#O, -n, --no-cache, Always run the flow instead of reading the token cache"`
	TTL         time.Duration `cli:"#O, --ttl, Lifetime of cached tokens that carry no expiry"`
	Debug       bool          `cli:"#O, -d, --debug, Log every request"`
}

func tokenCommand() {
	var args struct {
		CommonOptions
		JSON bool `cli:"#O, -j, --json, Print the token as JSON"`
	}
	if _, err := mcli.Parse(&args); err != nil {
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	ctx := context.Background()
	ts, err := newTokenSource(ctx, args.CommonOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not set up the flow")
	}

	tok, err := ts.Token()
	if err != nil {
		log.Fatal().Err(err).Msg("Implicit grant failed")
	}

	if !args.JSON {
		fmt.Println(tok.AccessToken)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tok); err != nil {
		log.Fatal().Err(err).Msg("Could not encode token")
	}
}

func getCommand() {
	var args struct {
		CommonOptions
		QueryToken bool   `cli:"#O, -q, --query-token, Send the token as the access_token query parameter"`
		URL        string `cli:"#R, url, URL to request"`
	}
	if _, err := mcli.Parse(&args); err != nil {
		log.Fatal().Err(err).Msg("Invalid arguments")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	ts, err := newTokenSource(ctx, args.CommonOptions)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not set up the flow")
	}

	body, err := fetch(ctx, ts, args.URL, args.QueryToken)
	if err != nil {
		log.Fatal().Err(err).Str("url", args.URL).Msg("Request failed")
	}
	fmt.Println(string(body))
}

// newTokenSource resolves configuration and builds a token source backed by
// the implicit grant and, when a cache key is configured, the token cache.
func newTokenSource(ctx context.Context, opts CommonOptions) (oauth2.TokenSource, error) {
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, opts)

	flow, err := implicit.New(cfg.Implicit, webauth.New(cfg.WebAuth))
	if err != nil {
		return nil, err
	}

	client := transport.NewClient(
		transport.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
		transport.WithInterceptors(flow),
	)
	ts := flow.TokenSource(ctx, client)

	if opts.NoCache {
		return ts, nil
	}
	cache, err := newCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	key := tokencache.Key{ClientID: cfg.Implicit.ClientID, Username: cfg.Implicit.Username}
	return oauth2.ReuseTokenSource(nil, tokencache.TokenSource(cache, key, ts)), nil
}

// newCache persists tokens only when a key is configured to encrypt them.
func newCache(c config.Cache) (tokencache.Cache, error) {
	if c.Key == "" {
		log.Debug().Msg("No cache key configured, tokens are kept in memory")
		return tokencache.NewMemoryCache(c.TTL), nil
	}
	return tokencache.NewFileCache(c.Dir, c.Key, c.TTL)
}

func applyFlags(cfg *config.Config, opts CommonOptions) {
	if opts.Username != "" {
		cfg.Implicit.Username = opts.Username
	}
	if opts.Password != "" {
		cfg.Implicit.Password = opts.Password
	}
	if opts.ClientID != "" {
		cfg.Implicit.ClientID = opts.ClientID
	}
	if opts.RedirectURI != "" {
		cfg.Implicit.RedirectURI = opts.RedirectURI
	}
	if opts.TTL > 0 {
		cfg.Cache.TTL = opts.TTL
	}
}

// fetch GETs rawURL with the token from ts, either as a bearer header or as
// the access_token query parameter.
func fetch(ctx context.Context, ts oauth2.TokenSource, rawURL string, queryToken bool) ([]byte, error) {
	hc := oauth2.NewClient(ctx, ts)

	if queryToken {
		tok, err := ts.Token()
		if err != nil {
			return nil, err
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("[fetch] parse url: %w", err)
		}
		q := u.Query()
		q.Set("access_token", tok.AccessToken)
		u.RawQuery = q.Encode()
		rawURL = u.String()
		hc = &http.Client{Timeout: requestTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("[fetch] build request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("[fetch] %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("[fetch] read body: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return body, fmt.Errorf("[fetch] unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
