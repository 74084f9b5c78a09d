package server

import (
	"bytes"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/api/oapi"
	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/Leopold1975/bookshelf/internal/pkg/jwtauth"
	"github.com/Leopold1975/bookshelf/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const adminScope = "admin"

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			var body bytes.Buffer

			ww.Tee(&body)

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("REQUEST %s METHOD %s %s URI %s STATUS %d Latency %s Client IP %s User Agent %s",
					middleware.GetReqID(r.Context()),
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					ww.Status(),
					latency,
					r.RemoteAddr,
					r.UserAgent(),
				)

				if ww.Status() >= http.StatusBadRequest && body.Len() != 0 {
					logg.Errorf("error: %s", body.String())
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// authenticate guards every operation that declares the bearerAuth security
// requirement. Operations without it pass through untouched.
func authenticate(as AuthService) oapi.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(oapi.BearerAuthScopes).([]string); !ok {
				next.ServeHTTP(w, r)

				return
			}

			token := bearerToken(r)
			if token == "" {
				handleError(w, msgAuthRequired, http.StatusUnauthorized)

				return
			}

			claims, err := as.Authenticate(token)
			if err != nil {
				handleError(w, msgInvalidToken, http.StatusUnauthorized)

				return
			}

			next.ServeHTTP(w, r.WithContext(jwtauth.WithClaims(r.Context(), claims)))
		})
	}
}

// authorizeAdmin must run after authenticate.
func authorizeAdmin() oapi.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scopes, _ := r.Context().Value(oapi.BearerAuthScopes).([]string)
			if !slices.Contains(scopes, adminScope) {
				next.ServeHTTP(w, r)

				return
			}

			claims, ok := jwtauth.FromContext(r.Context())
			if !ok {
				handleError(w, msgAuthRequired, http.StatusUnauthorized)

				return
			}

			if claims.Role != models.RoleAdmin {
				handleError(w, msgAccessDenied, http.StatusForbidden)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}
