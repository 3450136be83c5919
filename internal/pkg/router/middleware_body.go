package router

import "net/http"

// DefaultMaxBodyBytes caps request bodies when Config.MaxBodyBytes is unset.
const DefaultMaxBodyBytes int64 = 1 << 20

func middlewareBodyLimit(limit int64) Middleware {
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
