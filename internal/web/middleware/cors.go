// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

// allowedOrigins is the set of origins granted cross-origin access,
// loaded from the WEB_ALLOWED_ORIGINS environment variable.
type allowedOrigins map[string]struct{}

func loadAllowedOrigins() allowedOrigins {
	allowed := make(allowedOrigins)
	for _, origin := range strings.Split(os.Getenv("WEB_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	return allowed
}

// allows reports whether the origin may make cross-origin requests.
// Localhost origins on any port are always accepted; the kiosk frontends
// that capture face images run there during development without any
// configuration.
func (a allowedOrigins) allows(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := a[origin]; ok {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Hostname() == "localhost"
}

// CORS returns middleware that answers preflight requests and attaches
// cross-origin headers for whitelisted origins.
func CORS() func(http.Handler) http.Handler {
	allowed := loadAllowedOrigins()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); allowed.allows(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Requested-With")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
