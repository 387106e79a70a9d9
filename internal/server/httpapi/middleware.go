package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/pivault/internal/server/auth"
	"github.com/dmitrijs2005/pivault/internal/server/services"
)

type ctxKey int

const (
	ctxKeyUserID ctxKey = iota
	ctxKeyEmail
)

// requireAuth validates the bearer token and stores the subject identity in
// the request context. Handlers never touch the token themselves.
func (s *HTTPServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeErrorTag(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUserID, claims.Subject)
		ctx = context.WithValue(ctx, ctxKeyEmail, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func subjectID(r *http.Request) string {
	id, _ := r.Context().Value(ctxKeyUserID).(string)
	return id
}

// clientInfo extracts request metadata for auditing. X-Forwarded-For is
// trusted as-is; deployments without a reverse proxy fall back to the
// connection's remote address.
func clientInfo(r *http.Request) services.ClientInfo {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	} else if i := strings.IndexByte(ip, ','); i >= 0 {
		ip = strings.TrimSpace(ip[:i])
	}
	return services.ClientInfo{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}
