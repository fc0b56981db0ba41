package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidIssuer = errors.New("invalid issuer")
)

// SessionClaims represents claims in a session token
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// TokenService handles JWT token generation and validation
type TokenService struct {
	keyManager         *KeyManager
	issuer             string
	sessionTokenExpiry time.Duration
}

// TokenServiceConfig holds configuration for the token service
type TokenServiceConfig struct {
	Issuer             string
	SessionTokenExpiry time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(keyManager *KeyManager, cfg TokenServiceConfig) *TokenService {
	return &TokenService{
		keyManager:         keyManager,
		issuer:             cfg.Issuer,
		sessionTokenExpiry: cfg.SessionTokenExpiry,
	}
}

// IssueSessionToken creates a session token for a user
func (s *TokenService) IssueSessionToken(userID, email, name string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTokenExpiry)),
		},
		Email: email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyManager.KeyID()

	return token.SignedString(s.keyManager.PrivateKey())
}

// ValidateSessionToken validates a session token and returns the user ID
func (s *TokenService) ValidateSessionToken(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// GetSessionClaims extracts session claims from a token
func (s *TokenService) GetSessionClaims(tokenString string) (*SessionClaims, error) {
	return s.parse(tokenString)
}

func (s *TokenService) parse(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, ErrInvalidToken
		}
		return s.keyManager.PublicKey(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Issuer != s.issuer {
		return nil, ErrInvalidIssuer
	}

	return claims, nil
}
