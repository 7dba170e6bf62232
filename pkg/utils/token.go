package utils

import (
	"errors"
	"time"

	"github.com/Xyleee/api-devguidance/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GetJTI returns the token id used for revocation.
func (c *Claims) GetJTI() string {
	return c.ID
}

// RemainingTTL is how long the token stays valid from now.
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}

func GenerateToken(userID, role string) (string, error) {
	if config.AppConfig == nil || config.AppConfig.JWTSecret == "" {
		return "", errors.New("JWT_SECRET is not configured")
	}

	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.AppConfig.TokenTTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "api-devguidance",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ValidateToken(tokenString string) (*Claims, error) {
	if config.AppConfig == nil || config.AppConfig.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Helper for IDs
func GenerateID() string {
	return uuid.New().String()
}
