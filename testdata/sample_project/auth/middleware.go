package auth

import (
	"crypto/subtle"
	"net/http"
	"os"
)

// AuthMiddleware rejects requests whose X-Api-Key header does not match
// the API_KEY environment variable.
func AuthMiddleware(next http.Handler) http.Handler {
	want := []byte(os.Getenv("API_KEY"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := []byte(r.Header.Get("X-Api-Key"))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
