package middle

import (
	"context"
	"net/http"
	"strings"

	"connekt/config"

	"go.uber.org/fx"
)

type CallerKey struct{}

type IdentityMiddlewareParams struct {
	fx.In

	Config *config.AppConfig
}

// IdentityMiddleware reads the authenticated caller from a header set by the
// fronting auth proxy. Requests without it pass through anonymously.
type IdentityMiddleware struct {
	header string
}

func NewIdentityMiddleware(p IdentityMiddlewareParams) *IdentityMiddleware {
	return &IdentityMiddleware{header: p.Config.IdentityHeader}
}

func (m *IdentityMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(m.header))
		if uid == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), uid)))
	})
}

func WithCaller(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, CallerKey{}, uid)
}

// CallerID returns the authenticated uid, or "" for anonymous requests.
func CallerID(ctx context.Context) string {
	uid, _ := ctx.Value(CallerKey{}).(string)
	return uid
}
