package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the implicit grant shim
var (
	// Construction errors
	ErrConfiguration = errors.New("invalid configuration")

	// Session bootstrap errors
	ErrCookiesDisabled    = errors.New("client cookies are disabled")
	ErrCredentialsMissing = errors.New("username and password are required")
	ErrMissingCSRFToken   = errors.New("missing csrftoken from header Set-Cookie response")

	// Authorization flow errors
	ErrNoAccessToken = errors.New("no access token in authorize redirect")

	// Transport errors
	ErrTooManyRedirects = errors.New("too many redirects")

	// Cache errors
	ErrNotFound     = errors.New("not found")
	ErrCacheExpired = errors.New("cache entry expired")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
