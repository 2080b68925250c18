package tokencache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/oauth2"
)

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var ErrDecrypt = errors.New("cache file could not be decrypted")

// FileCache keeps one encrypted file per Key under Dir. Each file is
// salt | nonce | secretbox(json entry); the box key is scrypt(passphrase, salt).
type FileCache struct {
	dir        string
	passphrase []byte
	ttl        time.Duration
	now        func() time.Time
}

var _ Cache = (*FileCache)(nil)

func NewFileCache(dir, passphrase string, ttl time.Duration) (*FileCache, error) {
	if passphrase == "" {
		return nil, ierrors.Wrapf(ierrors.ErrConfiguration, "[NewFileCache] passphrase is required")
	}
	return &FileCache{
		dir:        dir,
		passphrase: []byte(passphrase),
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

// Path returns the file backing key.
func (c *FileCache) Path(key Key) string {
	sum := sha256.Sum256([]byte(key.ClientID + "\x00" + key.Username))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".cache")
}

func (c *FileCache) Set(key Key, token *oauth2.Token) error {
	if err := key.validate(); err != nil {
		return err
	}

	e := newEntry(token, c.now(), c.ttl)
	plain, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("[FileCache Set] marshal: %w", err)
	}

	var salt [saltSize]byte
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, salt[:]); err != nil {
		return fmt.Errorf("[FileCache Set] salt: %w", err)
	}
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("[FileCache Set] nonce: %w", err)
	}
	boxKey, err := c.deriveKey(salt[:])
	if err != nil {
		return err
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, salt[:]...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, boxKey)

	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("[FileCache Set] create dir: %w", err)
	}
	if err := os.WriteFile(c.Path(key), out, 0o600); err != nil {
		return fmt.Errorf("[FileCache Set] write: %w", err)
	}
	log.Debug().Str("client_id", key.ClientID).Time("expires_at", e.ExpiresAt).Msg("Token cached")
	return nil
}

func (c *FileCache) Get(key Key) (*oauth2.Token, error) {
	if err := key.validate(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ierrors.Wrapf(ErrNotFound, "[FileCache Get] %s", key.ClientID)
	}
	if err != nil {
		return nil, fmt.Errorf("[FileCache Get] read: %w", err)
	}
	if len(data) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ierrors.Wrapf(ErrDecrypt, "[FileCache Get] truncated file")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[saltSize:saltSize+nonceSize])
	boxKey, err := c.deriveKey(data[:saltSize])
	if err != nil {
		return nil, err
	}
	plain, ok := secretbox.Open(nil, data[saltSize+nonceSize:], &nonce, boxKey)
	if !ok {
		return nil, ierrors.Wrapf(ErrDecrypt, "[FileCache Get] %s", key.ClientID)
	}

	var e entry
	if err := json.Unmarshal(plain, &e); err != nil {
		return nil, fmt.Errorf("[FileCache Get] unmarshal: %w", err)
	}
	if e.Token == nil || e.expired(c.now()) {
		return nil, ierrors.Wrapf(ErrExpired, "[FileCache Get] %s", key.ClientID)
	}
	return e.Token, nil
}

func (c *FileCache) Delete(key Key) error {
	if err := key.validate(); err != nil {
		return err
	}
	if err := os.Remove(c.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("[FileCache Delete] %w", err)
	}
	return nil
}

func (c *FileCache) deriveKey(salt []byte) (*[keySize]byte, error) {
	derived, err := scrypt.Key(c.passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("[FileCache deriveKey] %w", err)
	}
	var key [keySize]byte
	copy(key[:], derived)
	return &key, nil
}
