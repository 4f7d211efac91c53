package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
	"github.com/JosephStocks/toggl-entry-annotator/pkg/platform/httputil"
)

// ServiceTokenConfig carries the Cloudflare Access service-token credentials
// expected on protected routes.
type ServiceTokenConfig struct {
	ClientID     string
	ClientSecret string
	// Enabled short-circuits the check, used in development and in handler
	// tests that exercise the routes directly.
	Enabled bool
}

// ServiceToken authenticates requests by Cloudflare Access service-token
// headers. Comparison is constant time so header probing reveals nothing about
// credential prefixes.
func ServiceToken(cfg ServiceTokenConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			id := r.Header.Get("Cf-Access-Client-Id")
			secret := r.Header.Get("Cf-Access-Client-Secret")
			if id == "" || secret == "" {
				logger.WarnContext(r.Context(), "missing service-token headers",
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing CF service-token headers"))
				return
			}

			idOK := subtle.ConstantTimeCompare([]byte(id), []byte(cfg.ClientID)) == 1
			secretOK := subtle.ConstantTimeCompare([]byte(secret), []byte(cfg.ClientSecret)) == 1
			if !idOK || !secretOK {
				logger.WarnContext(r.Context(), "invalid service token",
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Invalid service token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
