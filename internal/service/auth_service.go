package service

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

// AuthService verifies bearer tokens minted by the external identity
// provider. The API never issues tokens itself; it only checks signatures
// and reads the identity for audit records.
type AuthService struct {
	secret []byte
	issuer string
	logger *zap.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(secret, issuer string, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{secret: []byte(secret), issuer: issuer, logger: logger}
}

// ValidateToken parses and verifies a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, appErrors.ErrUnauthorized
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		s.logger.Debug("token validation failed", zap.Error(err))
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}
