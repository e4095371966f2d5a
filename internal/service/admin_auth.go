package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/quote-configurator-bfa-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/admin_auth")

const adminTokenType = "admin"

// AdminAuthService guards the admin panel with a single bcrypt-hashed
// password and short-lived HS256 tokens.
type AdminAuthService struct {
	passwordHash []byte
	jwtSecret    []byte
	accessTTL    time.Duration
	logger       *zap.Logger
}

// NewAdminAuthService creates the admin auth service.
func NewAdminAuthService(passwordHash, jwtSecret string, accessTTL time.Duration, logger *zap.Logger) *AdminAuthService {
	return &AdminAuthService{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		accessTTL:    accessTTL,
		logger:       logger,
	}
}

// Enabled reports whether an admin password and signing secret are configured.
func (s *AdminAuthService) Enabled() bool {
	return len(s.passwordHash) > 0 && len(s.jwtSecret) > 0
}

// ============================================================
// Login: POST /v1/admin/login
// ============================================================

func (s *AdminAuthService) Login(ctx context.Context, req *domain.AdminLoginRequest) (*domain.AdminLoginResponse, error) {
	_, span := authTracer.Start(ctx, "AdminAuthService.Login")
	defer span.End()

	if !s.Enabled() {
		return nil, &domain.ErrUnavailable{Feature: "painel administrativo"}
	}
	if req.Password == "" {
		return nil, &domain.ErrValidation{Field: "password", Message: "senha é obrigatória"}
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(req.Password)); err != nil {
		s.logger.Warn("admin login: invalid password")
		return nil, &domain.ErrUnauthorized{Message: "Senha inválida"}
	}

	token, err := s.signAccessToken()
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.logger.Info("admin login succeeded")
	return &domain.AdminLoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

// ValidateToken parses and validates an admin access token.
func (s *AdminAuthService) ValidateToken(tokenStr string) error {
	if !s.Enabled() {
		return &domain.ErrUnavailable{Feature: "painel administrativo"}
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return &domain.ErrUnauthorized{Message: "Token expirado"}
		}
		return &domain.ErrUnauthorized{Message: "Token inválido"}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return &domain.ErrUnauthorized{Message: "Token inválido"}
	}
	if claims["type"] != adminTokenType {
		return &domain.ErrUnauthorized{Message: "Token não é de administrador"}
	}
	return nil
}

func (s *AdminAuthService) signAccessToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  "admin",
		"type": adminTokenType,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
