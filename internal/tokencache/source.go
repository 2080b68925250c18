package tokencache

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// TokenSource serves tokens from cache and falls back to src, storing what
// src returns. Cache failures are logged and never fail the call.
func TokenSource(cache Cache, key Key, src oauth2.TokenSource) oauth2.TokenSource {
	return &cachedSource{cache: cache, key: key, src: src}
}

type cachedSource struct {
	cache Cache
	key   Key
	src   oauth2.TokenSource
}

func (s *cachedSource) Token() (*oauth2.Token, error) {
	tok, err := s.cache.Get(s.key)
	if err == nil {
		log.Debug().Str("client_id", s.key.ClientID).Msg("Token served from cache")
		return tok, nil
	}
	log.Debug().Err(err).Msg("Token cache miss")

	tok, err = s.src.Token()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(s.key, tok); err != nil {
		log.Warn().Err(err).Msg("Could not cache token")
	}
	return tok, nil
}
