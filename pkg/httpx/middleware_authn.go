package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/troias/tradematey/pkg/jwtx"
	"github.com/troias/tradematey/pkg/slogx"
)

// IdentityMiddleware resolves the acting identity from a Bearer session
// token, when one is present, and injects it into the request context.
//
// A missing Authorization header is NOT rejected here: several endpoints are
// public, and on privileged endpoints the authorization gate must be the one
// to distinguish "unauthenticated" from "forbidden". A header that is
// present but fails verification is rejected immediately, since letting a
// bad token degrade into an anonymous request would mask client bugs.
func IdentityMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "malformed authorization header")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session token rejected", slogx.Err(err))
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, CtxKeyEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
