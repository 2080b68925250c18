package implicit

import (
	"strings"

	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
)

var (
	ErrConfiguration = ierrors.ErrConfiguration
	ErrNoAccessToken = ierrors.ErrNoAccessToken
)

// MissingKeysError names the required configuration keys that were left empty,
// in the order they are declared.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return "Config is missing the following keys: " + strings.Join(e.Keys, ", ")
}

func (e *MissingKeysError) Unwrap() error {
	return ErrConfiguration
}
