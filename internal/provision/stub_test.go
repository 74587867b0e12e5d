package provision

import (
	"context"

	"github.com/wolfeidau/bbprovision/internal/backend"
)

// stubBackend returns canned responses and counts calls.
type stubBackend struct {
	lookup   func() (*backend.Response, error)
	create   func() (*backend.Response, error)
	call     func() (*backend.Response, error)
	invoke   func() (*backend.Response, error)
	lookups  int
	creates  int
	calls    int
	invokes  int
	lastBody any
}

func (s *stubBackend) Lookup(ctx context.Context, resource string, query *backend.Query) (*backend.Response, error) {
	s.lookups++
	return s.lookup()
}

func (s *stubBackend) Create(ctx context.Context, resource string, body any) (*backend.Response, error) {
	s.creates++
	s.lastBody = body
	return s.create()
}

func (s *stubBackend) CallProcedure(ctx context.Context, name string, args any) (*backend.Response, error) {
	s.calls++
	s.lastBody = args
	return s.call()
}

func (s *stubBackend) InvokeFunction(ctx context.Context, name string, body any) (*backend.Response, error) {
	s.invokes++
	s.lastBody = body
	return s.invoke()
}
