package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"main/internal/config"
)

// Verification failures are collapsed into two sentinel errors so the
// transport layer can map them onto the envelope codes directly.
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrInvalidToken = errors.New("token is invalid")
)

type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies the signed, time-limited credentials
// used on every protected route. The secret and TTL are fixed at
// construction and never mutated.
type TokenService struct {
	config *config.Config
	logger *zap.Logger
}

func NewTokenService(cfg *config.Config, log *zap.Logger) *TokenService {
	return &TokenService{
		config: cfg,
		logger: log,
	}
}

// TTL returns the configured token lifetime.
func (ts *TokenService) TTL() time.Duration {
	return time.Duration(ts.config.JWT.ExpiresIn) * time.Second
}

// Issue generates a signed token for the given subject, expiring after
// the configured TTL.
func (ts *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("subject must not be empty")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.TTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    ts.config.JWT.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(ts.config.JWT.SecretKey))
	if err != nil {
		ts.logger.Error("Token generation failed", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the authenticated
// subject. It fails with ErrTokenExpired when the token is past its
// expiry and ErrInvalidToken for anything else (bad signature,
// malformed string, missing subject).
func (ts *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.config.JWT.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		ts.logger.Debug("Token parsing failed", zap.Error(err))
		return "", ErrInvalidToken
	}

	if !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// ExtractToken extracts the bearer token from an Authorization header.
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is empty")
	}

	const scheme = "Bearer "
	if len(authHeader) < len(scheme) || authHeader[:len(scheme)] != scheme {
		return "", fmt.Errorf("invalid authorization header format")
	}

	return authHeader[len(scheme):], nil
}
