package oauthmodel

import (
	"net/url"
	"strings"
)

// AuthorizeParameters holds the values the implicit grant authorize POST carries.
type AuthorizeParameters struct {
	// ResponseType is sent as the response_type query parameter.
	// Example: "token"
	ResponseType ResponseType

	// ClientID identifies the registered application.
	// Sent as the client_id query parameter.
	ClientID string

	// RedirectURI is where the provider sends the fragment carrying the token.
	// Must match the URI registered for ClientID.
	RedirectURI string

	// CSRFMiddlewareToken is the csrftoken cookie value of the logged in session,
	// echoed back in the form body.
	CSRFMiddlewareToken string
}

// Validate checks the parameters can be sent to an authorize endpoint.
func (p AuthorizeParameters) Validate() error {
	if p.ResponseType != TokenResponseType && p.ResponseType != CodeResponseType {
		return ErrInvalidResponseType
	}
	if strings.TrimSpace(p.RedirectURI) == "" {
		return ErrInvalidRedirectUri
	}
	return nil
}

// ApplyQuery sets the query parameters of the authorize request.
func (p AuthorizeParameters) ApplyQuery(q url.Values) {
	q.Set(ParamResponseType, string(p.ResponseType))
	q.Set(ParamClientID, p.ClientID)
	q.Set(ParamRedirectURI, p.RedirectURI)
}

// ApplyForm sets the body fields of the authorize request.
func (p AuthorizeParameters) ApplyForm(form url.Values) {
	form.Set(FieldCSRFMiddlewareToken, p.CSRFMiddlewareToken)
	form.Set(FieldAllow, AllowAuthorize)
}
