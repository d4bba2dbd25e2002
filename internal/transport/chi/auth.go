package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

const bearerPrefix = "Bearer "

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys is empty, authentication is disabled (pass-through).
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			switch {
			case auth == "":
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
			case !strings.HasPrefix(auth, bearerPrefix):
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
			case !validKey(keys, []byte(auth[len(bearerPrefix):])):
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid api key")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func validKey(keys [][]byte, token []byte) bool {
	ok := 0
	for _, k := range keys {
		ok |= subtle.ConstantTimeCompare(k, token)
	}
	return ok == 1
}
