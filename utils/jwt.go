package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"tablebook/config"

	"github.com/golang-jwt/jwt"
)

// secretKey prefers the configured secret, then the raw environment, then a development fallback.
func secretKey() []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("tablebook-dev-secret")
}

// GenerateToken creates a signed JWT for a user and one mini-app launch session.
// It returns the token together with its expiry.
func GenerateToken(subject, sessionID string, duration time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(duration)
	claims := jwt.MapClaims{
		"sub": subject,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretKey())
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ExtractIDsFromToken returns the user ID (sub) and launch session ID (sid) of a valid token.
func ExtractIDsFromToken(tokenString string) (string, string, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("token does not contain a valid 'sub' claim")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", "", errors.New("token does not contain a valid 'sid' claim")
	}

	return sub, sid, nil
}

// TokenExpiry reads the exp claim of a valid token.
func TokenExpiry(tokenString string) (time.Time, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, errors.New("invalid token")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("token does not contain an 'exp' claim")
	}
	return time.Unix(int64(exp), 0), nil
}
