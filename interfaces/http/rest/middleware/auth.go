package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"yti-common/application/security"
	pkgerrors "yti-common/pkg/errors"
)

// Authenticate resolves the bearer token of the request into a user stored
// in the request context. Requests without a token continue as anonymous;
// an invalid token is rejected with 401. A nil authenticator treats every
// request as anonymous.
func Authenticate(auth *security.JWTAuthenticator, errs *pkgerrors.ErrorHandler, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if auth == nil || header == "" {
				next.ServeHTTP(w, r.WithContext(security.WithUser(r.Context(), security.AnonymousUser())))
				return
			}

			user, err := auth.Authenticate(header)
			if err != nil {
				logger.Debug("Rejected bearer token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError(err.Error()))
				return
			}

			next.ServeHTTP(w, r.WithContext(security.WithUser(r.Context(), user)))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(errs *pkgerrors.ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if security.UserFromContext(r.Context()).Anonymous {
				errs.Handle(w, r, pkgerrors.NewUnauthorizedError("User not authenticated"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
