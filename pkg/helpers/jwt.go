package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and validates HS256 access tokens. Tokens are
// stateless: validity is a function of the signature and expiry alone.
type JWTManager struct {
	Secret    []byte
	AccessTTL time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	m := &JWTManager{
		Secret:    []byte(secret),
		AccessTTL: accessTTL,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

type Claims struct {
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token whose subject is the user's email.
func (m *JWTManager) GenerateAccessToken(email string) (string, time.Time, error) {
	exp := time.Now().Add(m.AccessTTL)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// ParseAccessToken validates signature and expiry and returns the claims.
// Expired, tampered, and malformed tokens all come back as an error; the
// caller is not told which.
func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
