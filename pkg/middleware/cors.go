// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"net/http"
	"os"
)

// DefaultOrigins returns the CORS allow-list for the current environment.
// Hosted deployments (detected via PORT / RAILWAY_ENVIRONMENT) only allow
// the production frontends; everything else gets the local dev origins,
// including "null" for file:// testing.
func DefaultOrigins() []string {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" || os.Getenv("PORT") != "" {
		return []string{
			"https://chroma-bot-game.vercel.app",
			"https://data-bleed-vsc-game.vercel.app",
		}
	}
	return []string{
		"https://data-bleed-vsc-game.vercel.app",
		"http://127.0.0.1:8080",
		"http://localhost:8080",
		"http://127.0.0.1:3001",
		"http://localhost:3001",
		"http://localhost:3000",
		"null",
	}
}

// CORS returns middleware that applies the given origin allow-list and
// short-circuits preflight requests.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && originAllowed(origin, allowedOrigins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				// Credentials are never paired with a wildcard match; that
				// combination opens the API to cross-site request forgery.
				if exactMatch(origin, allowedOrigins) {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	for _, o := range allowed {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func exactMatch(origin string, allowed []string) bool {
	for _, o := range allowed {
		if o != "*" && o == origin {
			return true
		}
	}
	return false
}
