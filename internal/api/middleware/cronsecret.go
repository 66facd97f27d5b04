package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/phrazzld/taskcycle-api/internal/api/shared"
)

// CronSecretHeader is the header the external trigger presents on cron
// endpoint requests.
const CronSecretHeader = "X-Cron-Secret"

// CronSecretMiddleware guards the cron trigger endpoints with a shared
// secret. The check runs before any scanning or batch work starts, so an
// unauthorized caller never touches the database. The comparison is
// constant-time.
type CronSecretMiddleware struct {
	secret []byte
}

// NewCronSecretMiddleware creates a CronSecretMiddleware with the configured
// shared secret.
func NewCronSecretMiddleware(secret string) *CronSecretMiddleware {
	if secret == "" {
		// ALLOW-PANIC: constructor enforcing required configuration
		panic("cron secret cannot be empty for CronSecretMiddleware")
	}
	return &CronSecretMiddleware{secret: []byte(secret)}
}

// RequireSecret rejects requests whose X-Cron-Secret header does not match
// the configured secret. Missing and wrong secrets get the same response.
func (m *CronSecretMiddleware) RequireSecret(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := []byte(r.Header.Get(CronSecretHeader))
		if subtle.ConstantTimeCompare(presented, m.secret) != 1 {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid cron secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}
