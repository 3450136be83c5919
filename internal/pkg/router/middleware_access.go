package router

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/shandysiswandi/mailrelay/internal/pkg/goerror"
)

const (
	// HeaderFunctionsKey carries the caller access key.
	HeaderFunctionsKey = "X-Functions-Key"
	// QueryFunctionsKey is the query parameter alternative to HeaderFunctionsKey.
	QueryFunctionsKey = "code"
)

func middlewareAccessKey(keys []string, publicEndpoints map[string]map[string]struct{}) Middleware {
	accepted := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			accepted = append(accepted, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(accepted) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[matchedRoutePath(r)]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			given := strings.TrimSpace(r.Header.Get(HeaderFunctionsKey))
			if given == "" {
				given = strings.TrimSpace(r.URL.Query().Get(QueryFunctionsKey))
			}

			if !matchKey(accepted, []byte(given)) {
				writeError(r.Context(), w, goerror.NewUnauthorized("Unauthorized."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func matchKey(accepted [][]byte, given []byte) bool {
	if len(given) == 0 {
		return false
	}

	found := 0
	for _, k := range accepted {
		found |= subtle.ConstantTimeCompare(k, given)
	}
	return found == 1
}
