package tokencache

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var testKey = Key{ClientID: "client", Username: "foo"}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newCaches(t *testing.T, clk *clock) map[string]Cache {
	t.Helper()
	mem := NewMemoryCache(time.Hour)
	mem.now = clk.now

	file, err := NewFileCache(t.TempDir(), "passphrase", time.Hour)
	require.NoError(t, err)
	file.now = clk.now

	return map[string]Cache{"memory": mem, "file": file}
}

func TestCache_RoundTrip(t *testing.T) {
	clk := &clock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	for name, cache := range newCaches(t, clk) {
		t.Run(name, func(t *testing.T) {
			_, err := cache.Get(testKey)
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, cache.Set(testKey, &oauth2.Token{AccessToken: "XYZ", TokenType: "Bearer"}))

			tok, err := cache.Get(testKey)
			require.NoError(t, err)
			require.Equal(t, "XYZ", tok.AccessToken)
			require.Equal(t, "Bearer", tok.TokenType)

			_, err = cache.Get(Key{ClientID: "client", Username: "other"})
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, cache.Delete(testKey))
			require.NoError(t, cache.Delete(testKey))
			_, err = cache.Get(testKey)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestCache_Expiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for _, name := range []string{"memory", "file"} {
		t.Run(name, func(t *testing.T) {
			clk := &clock{t: start}
			cache := newCaches(t, clk)[name]

			require.NoError(t, cache.Set(testKey, &oauth2.Token{AccessToken: "ttl"}))
			clk.t = start.Add(59 * time.Minute)
			_, err := cache.Get(testKey)
			require.NoError(t, err)
			clk.t = start.Add(time.Hour)
			_, err = cache.Get(testKey)
			require.ErrorIs(t, err, ErrExpired)

			clk.t = start
			require.NoError(t, cache.Set(testKey, &oauth2.Token{AccessToken: "own", Expiry: start.Add(2 * time.Hour)}))
			clk.t = start.Add(90 * time.Minute)
			tok, err := cache.Get(testKey)
			require.NoError(t, err)
			require.Equal(t, "own", tok.AccessToken)
		})
	}
}

func TestCache_KeyValidation(t *testing.T) {
	for name, cache := range newCaches(t, &clock{t: time.Now()}) {
		t.Run(name, func(t *testing.T) {
			require.Error(t, cache.Set(Key{Username: "foo"}, &oauth2.Token{}))
			_, err := cache.Get(Key{ClientID: "client"})
			require.Error(t, err)
			require.Error(t, cache.Delete(Key{}))
		})
	}
}

func TestFileCache_Encrypted(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewFileCache(dir, "passphrase", time.Hour)
	require.NoError(t, err)
	require.NoError(t, cache.Set(testKey, &oauth2.Token{AccessToken: "secret-token"}))

	data, err := os.ReadFile(cache.Path(testKey))
	require.NoError(t, err)
	require.NotContains(t, string(data), "secret-token")

	wrong, err := NewFileCache(dir, "other passphrase", time.Hour)
	require.NoError(t, err)
	_, err = wrong.Get(testKey)
	require.ErrorIs(t, err, ErrDecrypt)

	require.NoError(t, os.WriteFile(cache.Path(testKey), []byte("short"), 0o600))
	_, err = cache.Get(testKey)
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestNewFileCache_RequiresPassphrase(t *testing.T) {
	_, err := NewFileCache(t.TempDir(), "", time.Hour)
	require.Error(t, err)
}
