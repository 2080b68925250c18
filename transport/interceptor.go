package transport

import (
	"context"
	"net/http"
)

// Interceptor hooks into the request pipeline.
//
// BeforeSend runs for every request handed to the pipeline, before it leaves
// the process. It may mutate req and issue nested requests through p. A
// returned error aborts the request.
//
// AfterComplete runs for every response received, including each redirect
// hop, before the pipeline decides whether to follow it. Removing the
// Location header suppresses the redirect.
type Interceptor interface {
	BeforeSend(ctx context.Context, req *Request, p Pipeline) error
	AfterComplete(ctx context.Context, resp *Response, p Pipeline) error
}

// Pipeline is what interceptors see of the client driving them.
type Pipeline interface {
	// Send issues a request synchronously through every attached interceptor.
	Send(ctx context.Context, req *Request) (*Response, error)
	// CookieJar returns the attached cookie store, or nil.
	CookieJar() http.CookieJar
	SetCookieJar(jar http.CookieJar)
	// Attached reports whether i is already registered on the pipeline.
	Attached(i Interceptor) bool
}

// Funcs adapts plain functions to Interceptor. Nil hooks are skipped.
type Funcs struct {
	Before func(ctx context.Context, req *Request, p Pipeline) error
	After  func(ctx context.Context, resp *Response, p Pipeline) error
}

var _ Interceptor = (*Funcs)(nil)

func (f *Funcs) BeforeSend(ctx context.Context, req *Request, p Pipeline) error {
	if f.Before == nil {
		return nil
	}
	return f.Before(ctx, req, p)
}

func (f *Funcs) AfterComplete(ctx context.Context, resp *Response, p Pipeline) error {
	if f.After == nil {
		return nil
	}
	return f.After(ctx, resp, p)
}
