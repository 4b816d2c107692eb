package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"rehome/pkg/domain"
)

// TokenValidator defines the interface for validating bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents the claims we expect from the token validator
type Claims struct {
	PersonID domain.PersonID
	Role     domain.Role
}

type contextKeyCaller struct{}

// ContextKeyCaller is exported for use in handlers and tests
var ContextKeyCaller = contextKeyCaller{}

// GetCaller retrieves the authenticated caller from the context. Requests
// that never passed an auth middleware resolve to the anonymous caller.
func GetCaller(ctx context.Context) domain.Caller {
	caller, ok := ctx.Value(ContextKeyCaller).(domain.Caller)
	if !ok {
		return domain.AnonymousCaller()
	}
	return caller
}

// WithCaller stores a caller in the context. Used by the auth middlewares
// and by tests that need to act as a specific person.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, ContextKeyCaller, caller)
}

// RequireAuth rejects requests without a valid bearer token and places the
// authenticated caller in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := callerFromRequest(r, validator, logger)
			if !ok {
				writeUnauthorized(w, r, logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// OptionalAuth resolves the caller when a bearer token is present and lets
// anonymous requests through. A token that is present but invalid is still
// rejected so clients never silently fall back to the anonymous view.
func OptionalAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), domain.AnonymousCaller())))
				return
			}
			caller, ok := callerFromRequest(r, validator, logger)
			if !ok {
				writeUnauthorized(w, r, logger)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func callerFromRequest(r *http.Request, validator TokenValidator, logger *slog.Logger) (domain.Caller, bool) {
	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok {
		return domain.Caller{}, false
	}
	claims, err := validator.ValidateToken(token)
	if err != nil {
		logger.WarnContext(r.Context(), "unauthorized access - invalid token",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
		return domain.Caller{}, false
	}
	return domain.Caller{PersonID: claims.PersonID, Role: claims.Role}, true
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`)); err != nil {
		logger.ErrorContext(r.Context(), "failed to write unauthorized response",
			"error", err,
			"request_id", GetRequestID(r.Context()),
		)
	}
}
