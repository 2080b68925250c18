package webauth

import ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"

var (
	ErrCookiesDisabled    = ierrors.ErrCookiesDisabled
	ErrCredentialsMissing = ierrors.ErrCredentialsMissing
	ErrMissingCSRFToken   = ierrors.ErrMissingCSRFToken
)
