package oauthmodel

// ResponseType represents the OAuth 2.0 response type sent to the authorize endpoint.
type ResponseType string

const (
	// TokenResponseType indicates the implicit grant.
	// The access token comes back in the redirect fragment:
	// https://client.example.com/callback#access_token=ABC123
	TokenResponseType ResponseType = "token"

	// CodeResponseType indicates the authorization code flow.
	// Not driven by this module; listed so callers can reject it early.
	CodeResponseType ResponseType = "code"
)

// ResponseModeType denotes how the authorization response parameters are returned to the client.
type ResponseModeType string

const (
	// QueryResponseMode returns parameters in the URL query string.
	QueryResponseMode ResponseModeType = "query"

	// FragmentResponseMode returns parameters in the URL fragment (after #).
	// Used in: Implicit Flow
	FragmentResponseMode ResponseModeType = "fragment"
)

// DefaultResponseMode returns the response mode a provider uses for the response type.
func (r ResponseType) DefaultResponseMode() ResponseModeType {
	if r == TokenResponseType {
		return FragmentResponseMode
	}
	return QueryResponseMode
}

// Form field and query parameter names used on the provider's login surface.
const (
	FieldUsername            = "username"
	FieldPassword            = "password"
	FieldIntent              = "intent"
	FieldCSRFMiddlewareToken = "csrfmiddlewaretoken"
	FieldAllow               = "allow"

	AllowAuthorize = "Authorize"

	ParamResponseType = "response_type"
	ParamClientID     = "client_id"
	ParamRedirectURI  = "redirect_uri"

	// AccessTokenFragment is the literal the redirect fragment must start with.
	AccessTokenFragment = "access_token"
)
