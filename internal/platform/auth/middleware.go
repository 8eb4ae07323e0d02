package auth

import (
	"context"
	"log/slog"
	"net/http"
)

type ctxKeyIdentity struct{}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKeyIdentity{}).(Identity)
	return v, ok
}

// Middleware authenticates every request and stores the identity in the
// request context. Failures are logged and answered with 401; the handler
// chain is never reached unauthenticated.
type Middleware struct {
	Logger        *slog.Logger
	Authenticator Authenticator
}

func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.Authenticator.Authenticate(r.Context(), r)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Info("authentication rejected",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
				)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyIdentity{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
