package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ibrahimdesign/atelier/pkg/auth"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

type principalKey struct{}

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID string
	Role   string
}

// PrincipalFromCtx returns the principal set by Identify, or nil when the
// request carried no valid token.
func PrincipalFromCtx(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Identify attaches the principal to the request context when a valid bearer
// token is present. Missing or invalid tokens pass through anonymously; the
// role resolver downgrades those callers to guest.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		p := &Principal{UserID: claims.UserID, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	})
}

// RequireAuth rejects requests without a valid bearer token. Wire Identify
// before it; RequireAuth only checks that a principal made it into context.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromCtx(r.Context()) == nil {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}
