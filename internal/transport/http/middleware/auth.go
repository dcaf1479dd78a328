package httpmw

import (
	"net/http"
	"strings"

	"github.com/Yinyue93/japanese-chat/internal/security"
)

// AdminAuth guards the admin API: requires a Bearer token issued to the
// configured admin id.
func AdminAuth(tokens *security.TokenIssuer, adminID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= 7 {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"missing bearer token"}`))
				return
			}
			subject, err := tokens.Verify(strings.TrimSpace(auth[7:]))
			if err != nil || subject != adminID {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid token"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
