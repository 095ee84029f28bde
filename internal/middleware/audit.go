package middleware

import (
	"database/sql"
	"net"
	"net/http"

	"eval-admin/internal/models"
	"eval-admin/internal/repository"
)

// AuditMiddleware records administrative actions in the audit log
type AuditMiddleware struct {
	auditRepo *repository.AuditRepository
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(db *sql.DB) *AuditMiddleware {
	return &AuditMiddleware{
		auditRepo: repository.NewAuditRepository(db),
	}
}

// Log records an action to the audit log after the wrapped handler ran
func (m *AuditMiddleware) Log(action, resource string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			var actorID *string
			if id, ok := GetActorID(r); ok {
				actorID = &id
			}

			entry := &models.AuditLog{
				ActorID:   actorID,
				Action:    action,
				Resource:  resource,
				Details:   r.Method + " " + r.URL.Path,
				IPAddress: getIP(r),
				UserAgent: r.UserAgent(),
			}

			// Audit failures never block the request
			_ = m.auditRepo.Create(entry)
		})
	}
}

func getIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
