package authgw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeVerifier struct {
	user   User
	err    error
	called bool
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (User, error) {
	f.called = true
	if f.err != nil {
		return User{}, f.err
	}
	return f.user, nil
}

func TestWrapMissingTokenIsRejectedBeforeVerification(t *testing.T) {
	verifier := &fakeVerifier{}
	handlerRan := false
	h := NewMiddleware(verifier).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerRan = true
	}))

	for _, header := range []string{"", "Bearer "} {
		req := httptest.NewRequest(http.MethodGet, "/rides", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
	if verifier.called {
		t.Error("verifier must not be called without a token")
	}
	if handlerRan {
		t.Error("handler must not run for unauthenticated requests")
	}
}

func TestWrapStatusPerVerifierError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", ErrUnauthorized, http.StatusUnauthorized},
		{"gateway timeout", ErrGatewayTimeout, http.StatusGatewayTimeout},
		{"gateway down", ErrGatewayUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMiddleware(&fakeVerifier{err: tc.err}).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run")
			}))
			req := httptest.NewRequest(http.MethodGet, "/rides", nil)
			req.Header.Set("Authorization", "Bearer some-token")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestWrapAttachesUserToContext(t *testing.T) {
	want := User{ID: "u1", Username: "alice", Role: RoleRider}
	var got User
	var ok bool
	h := NewMiddleware(&fakeVerifier{user: want}).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/rides", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("user missing from context")
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}
