package middleware

import (
	"net/http"
)

// NoStore sets strict no-cache headers on every response. Check-in history,
// chat messages and export bundles are personal data; no intermediary
// should ever cache them.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
