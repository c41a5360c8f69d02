package http

import (
	"context"
	"net/http"
	"strings"

	applog "github.com/ChongZhe001025/FinTrack-sub000/internal/log"
)

type ownerKey struct{}

// OwnerFromContext returns the authenticated owner of the request.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(ownerKey{}).(string)
	return owner, ok && owner != ""
}

// WithOwner returns a context carrying owner as the authenticated owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// requireOwner authenticates HTTP Basic credentials against the credential
// store. Handlers behind it read the owner with OwnerFromContext.
func (s *Server) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		owner, secret, ok := r.BasicAuth()
		owner = strings.TrimSpace(owner)
		if !ok || owner == "" || secret == "" {
			UnauthorizedError().Write(w)
			return
		}

		valid, err := s.deps.Credentials.Verify(ctx, owner, secret)
		if err != nil {
			s.events.LogError(ctx, "Credential check failed", err,
				applog.ComponentAuth, applog.OpValidate, applog.NewFields().WithOwner(owner))
			InternalServerError().Write(w)
			return
		}
		if !valid {
			applog.FromContext(ctx).WithComponent(applog.ComponentAuth).WarnContext(ctx,
				"Invalid credentials",
				applog.FieldOwner, owner,
				applog.FieldClientIP, s.securityDetector.ExtractClientIP(r),
				"error_type", applog.ErrorTypeAuth)
			UnauthorizedError().Write(w)
			return
		}

		logger := applog.FromContext(ctx).With(applog.FieldOwner, owner)
		ctx = context.WithValue(ctx, applog.LoggerContextKey, logger)
		next.ServeHTTP(w, r.WithContext(WithOwner(ctx, owner)))
	})
}

// ownerOf reads the owner set by requireOwner, answering 401 when it is
// missing.
func ownerOf(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := OwnerFromContext(r.Context())
	if !ok {
		UnauthorizedError().Write(w)
	}
	return owner, ok
}
