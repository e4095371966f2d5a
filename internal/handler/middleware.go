package handler

import (
	"net/http"
	"strings"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"
	"github.com/boddenberg/quote-configurator-bfa-go/internal/service"

	"go.uber.org/zap"
)

// RequireAdmin rejects requests that do not carry a valid admin token in
// the Authorization header.
func RequireAdmin(authSvc *service.AdminAuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err == nil {
				err = authSvc.ValidateToken(token)
			}
			if err != nil {
				handleServiceError(w, err, logger.With(
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", &domain.ErrUnauthorized{Message: "Token de administrador ausente"}
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", &domain.ErrUnauthorized{Message: "Cabeçalho Authorization deve ser 'Bearer <token>'"}
	}
	return token, nil
}
