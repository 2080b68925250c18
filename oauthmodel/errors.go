package oauthmodel

import "errors"

var (
	ErrInvalidRedirectUri  = errors.New("invalid or no redirect uri")
	ErrInvalidResponseType = errors.New("unsupported response type")
)
