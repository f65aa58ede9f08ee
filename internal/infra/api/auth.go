package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"art-gallery-paywall/internal/infra/logging"
)

type ctxKey string

const ctxEmailKey ctxKey = "email"

// emailFrom returns the email claim bound by Identity, if any.
func emailFrom(ctx context.Context) string {
	if v := ctx.Value(ctxEmailKey); v != nil {
		return v.(string)
	}
	return ""
}

// Identity parses an optional HS256 bearer token and binds the subject claim
// to the request context. A missing or malformed token is not an error here:
// anonymous purchases are allowed. Handlers that require an identity check
// the context themselves.
func Identity(secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				next.ServeHTTP(w, r)
				return
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := logging.WithUserID(r.Context(), sub)
			if mc, ok := token.Claims.(jwt.MapClaims); ok {
				if email, _ := mc["email"].(string); email != "" {
					ctx = context.WithValue(ctx, ctxEmailKey, email)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
