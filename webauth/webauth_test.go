package webauth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/jrsteele09/go-implicit-auth/internal/utils"
	"github.com/jrsteele09/go-implicit-auth/transport"
	"github.com/jrsteele09/go-implicit-auth/transport/transportfake"
	"github.com/jrsteele09/go-implicit-auth/webauth"
	"github.com/stretchr/testify/require"
)

const (
	loginURL       = "https://www.instagram.com/accounts/login/ajax/"
	probeSetCookie = "csrftoken=3d24ddab3a6797fe4fffaf45148532e3; expires=Sun, 22-Nov-2015 13:52:10 GMT; Max-Age=31449600; Path=/, mid=VHHmigAEAAEEAttmLKB26UD9lO7T; expires=Sat, 18-Nov-2034 13:52:10 GMT; Max-Age=630720000; Path=/, ccode=ES; Path=/"
	probeToken     = "3d24ddab3a6797fe4fffaf45148532e3"
)

func newClient(rt http.RoundTripper, w *webauth.Interceptor) *transport.Client {
	return transport.NewClient(transport.WithRoundTripper(rt), transport.WithInterceptors(w))
}

func credentials() url.Values {
	return url.Values{"username": {"test"}, "password": {"pass"}}
}

func TestNew_Defaults(t *testing.T) {
	cfg := webauth.New(webauth.Config{}).Config()
	require.Equal(t, webauth.DefaultLoginAjaxURL, cfg.LoginAjaxURL)
	require.Equal(t, webauth.DefaultLoginPageURL, cfg.LoginPageURL)
	require.Equal(t, webauth.DefaultOrigin, cfg.Origin)
	require.Equal(t, webauth.DefaultReferer, cfg.Referer)
	require.Equal(t, http.MethodPost, cfg.ProbeMethod)
	require.True(t, cfg.CookiesEnabled())

	disabled := webauth.New(webauth.Config{EnableCookie: utils.Ptr(false)}).Config()
	require.False(t, disabled.CookiesEnabled())
}

func TestBeforeSend_CookiesDisabled(t *testing.T) {
	rt := transportfake.New(transportfake.Response(http.StatusOK, nil, ""))
	c := newClient(rt, webauth.New(webauth.Config{EnableCookie: utils.Ptr(false)}))

	_, err := c.Get(context.Background(), "https://www.instagram.com/")
	require.ErrorIs(t, err, webauth.ErrCookiesDisabled)
	require.Contains(t, err.Error(), "client cookies are disabled")
	require.Equal(t, 0, rt.Len())
}

func TestBeforeSend_CookiesDisabledWithExistingJar(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	rt := transportfake.New(transportfake.Response(http.StatusOK, nil, ""))
	c := transport.NewClient(
		transport.WithRoundTripper(rt),
		transport.WithCookieJar(jar),
		transport.WithInterceptors(webauth.New(webauth.Config{EnableCookie: utils.Ptr(false)})),
	)

	_, err = c.Get(context.Background(), "https://www.instagram.com/")
	require.NoError(t, err)
	require.Equal(t, jar, c.CookieJar())
}

func TestBeforeSend_AttachesCookieJar(t *testing.T) {
	rt := transportfake.New(transportfake.Response(http.StatusOK, nil, ""))
	c := newClient(rt, webauth.New(webauth.Config{}))
	require.Nil(t, c.CookieJar())

	_, err := c.Get(context.Background(), "https://www.instagram.com/")
	require.NoError(t, err)
	require.NotNil(t, c.CookieJar())
	require.Equal(t, 1, rt.Len())
}

func TestBeforeSend_DecoratesLoginPost(t *testing.T) {
	rt := transportfake.New(
		transportfake.Response(http.StatusOK, transportfake.SetCookies(probeSetCookie), ""),
		transportfake.Response(http.StatusOK, http.Header{"Content-Type": {"application/json"}}, `{"status":"ok","authentication":false}`),
	)
	c := newClient(rt, webauth.New(webauth.Config{}))

	req := transport.NewRequest(http.MethodPost, loginURL)
	req.Form = credentials()
	resp, err := c.Send(context.Background(), req)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	require.Contains(t, body, "status")

	require.Equal(t, 2, rt.Len())

	probe := rt.Request(0)
	require.Equal(t, http.MethodPost, probe.Method)
	require.Equal(t, webauth.DefaultLoginPageURL, probe.URL.String())
	require.Equal(t, "XMLHttpRequest", probe.Header.Get("X-Requested-With"))
	require.Equal(t, webauth.DefaultOrigin, probe.Header.Get("Origin"))
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rt.Body(0), &payload))
	require.Contains(t, payload, "q")

	login := rt.Request(1)
	require.Equal(t, probeToken, login.Header.Get("X-CSRFToken"))
	require.Contains(t, login.Header.Get("Cookie"), "csrftoken="+probeToken)
	require.Equal(t, "XMLHttpRequest", login.Header.Get("X-Requested-With"))
	require.Equal(t, webauth.DefaultOrigin, login.Header.Get("Origin"))
	require.Equal(t, webauth.DefaultReferer, login.Header.Get("Referer"))

	form := rt.Form(1)
	require.Equal(t, "test", form.Get("username"))
	require.Equal(t, "pass", form.Get("password"))
	require.Contains(t, form, "intent")
	require.Equal(t, "", form.Get("intent"))

	require.Equal(t, probeToken, req.Header.Get("X-CSRFToken"))
	require.NotNil(t, req.Redirect)
	require.Equal(t, webauth.LoginRedirectPolicy, *req.Redirect)
}

func TestBeforeSend_LoginFollowsRedirectsStrictly(t *testing.T) {
	rt := transportfake.New(
		transportfake.Response(http.StatusOK, transportfake.SetCookies("csrftoken=TOK1"), ""),
		transportfake.Redirect("/accounts/login/ajax/next/"),
		transportfake.Response(http.StatusOK, nil, ""),
	)
	c := newClient(rt, webauth.New(webauth.Config{}))

	_, err := c.Post(context.Background(), loginURL, credentials())
	require.NoError(t, err)
	require.Equal(t, 3, rt.Len())

	hop := rt.Request(2)
	require.Equal(t, http.MethodPost, hop.Method)
	require.Equal(t, "test", rt.Form(2).Get("username"))
	require.Equal(t, loginURL, hop.Header.Get("Referer"))
}

func TestBeforeSend_CredentialsMissing(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "no fields", form: nil},
		{name: "no password", form: url.Values{"username": {"foo"}}},
		{name: "empty username", form: url.Values{"username": {""}, "password": {"bar"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := transportfake.New(transportfake.Response(http.StatusOK, nil, ""))
			c := newClient(rt, webauth.New(webauth.Config{}))

			_, err := c.Post(context.Background(), loginURL, tt.form)
			require.ErrorIs(t, err, webauth.ErrCredentialsMissing)
			require.Contains(t, err.Error(), "username and password are required")
			require.Equal(t, 0, rt.Len())
		})
	}
}

func TestBeforeSend_ProbeWithoutCSRFToken(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
	}{
		{name: "no Set-Cookie", header: nil},
		{name: "other cookie first", header: transportfake.SetCookies("mid=abc", "csrftoken=late")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := transportfake.New(
				transportfake.Response(http.StatusOK, tt.header, ""),
				transportfake.Response(http.StatusOK, nil, ""),
			)
			c := newClient(rt, webauth.New(webauth.Config{}))

			_, err := c.Post(context.Background(), loginURL, credentials())
			require.ErrorIs(t, err, webauth.ErrMissingCSRFToken)
			require.Equal(t, 1, rt.Len())
			require.Equal(t, 1, rt.Remaining())
		})
	}
}

func TestBeforeSend_GetProbe(t *testing.T) {
	rt := transportfake.New(
		transportfake.Response(http.StatusOK, transportfake.SetCookies("csrftoken=TOK1"), ""),
		transportfake.Response(http.StatusOK, nil, ""),
	)
	c := newClient(rt, webauth.New(webauth.Config{
		ProbeMethod:  http.MethodGet,
		LoginPageURL: "https://www.instagram.com/accounts/login/",
	}))

	_, err := c.Post(context.Background(), loginURL, credentials())
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, rt.Request(0).Method)
	require.Equal(t, "/accounts/login/", rt.Request(0).URL.Path)
	require.Empty(t, rt.Body(0))
	require.Equal(t, "TOK1", rt.Request(1).Header.Get("X-CSRFToken"))
}

func TestBeforeSend_IgnoresOtherRequests(t *testing.T) {
	rt := transportfake.New(
		transportfake.Response(http.StatusOK, nil, ""),
		transportfake.Response(http.StatusOK, nil, ""),
	)
	c := newClient(rt, webauth.New(webauth.Config{}))

	_, err := c.Get(context.Background(), loginURL)
	require.NoError(t, err)
	_, err = c.Post(context.Background(), "https://www.instagram.com/accounts/login/ajax", credentials())
	require.NoError(t, err)

	require.Equal(t, 2, rt.Len())
	require.Empty(t, rt.Request(0).Header.Get("X-CSRFToken"))
	require.Empty(t, rt.Request(1).Header.Get("X-CSRFToken"))
}
