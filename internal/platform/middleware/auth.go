package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// TokenRevocationChecker defines the interface for checking if tokens are revoked
type TokenRevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID string
	Role   string
	JTI    string
}

// Context keys for storing authenticated caller information
type contextKeyUserID struct{}
type contextKeyRole struct{}
type contextKeyJTI struct{}

// ContextKeyUserID is exported for use in handlers
var (
	ContextKeyUserID = contextKeyUserID{}
	ContextKeyRole   = contextKeyRole{}
	ContextKeyJTI    = contextKeyJTI{}
)

// GetUserID retrieves the authenticated user ID from the context.
// Empty string means the request carried no valid credential.
func GetUserID(ctx context.Context) string {
	userID, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return ""
	}
	return userID
}

// GetRole retrieves the authenticated caller's role from the context.
func GetRole(ctx context.Context) string {
	role, ok := ctx.Value(ContextKeyRole).(string)
	if !ok {
		return ""
	}
	return role
}

// GetJTI retrieves the token ID from the context, used for logout revocation.
func GetJTI(ctx context.Context) string {
	jti, ok := ctx.Value(ContextKeyJTI).(string)
	if !ok {
		return ""
	}
	return jti
}

// Authenticate resolves the bearer credential, if any, before the access
// matrix runs. A missing, invalid, or revoked token leaves the request
// unauthenticated rather than rejecting it here: whether anonymity is
// acceptable is the access matrix's call, not this filter's.
func Authenticate(validator JWTValidator, revocations TokenRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "ignoring invalid bearer token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			if revocations != nil && claims.JTI != "" {
				revoked, err := revocations.IsRevoked(ctx, claims.JTI)
				if err != nil {
					logger.ErrorContext(ctx, "failed to check token revocation",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal_error","message":"failed to validate token"}`))
					return
				}
				if revoked {
					logger.WarnContext(ctx, "ignoring revoked token",
						"jti", claims.JTI,
						"request_id", GetRequestID(ctx),
					)
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx = context.WithValue(ctx, ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			ctx = context.WithValue(ctx, ContextKeyJTI, claims.JTI)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
