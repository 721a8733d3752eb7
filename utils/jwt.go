package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"tradelink/config"
	"tradelink/models"

	"github.com/golang-jwt/jwt"
)

// IdentityTokenTTL is how long a mock sign-in stays valid.
const IdentityTokenTTL = 30 * 24 * time.Hour

var (
	secretMu  sync.RWMutex
	secretKey []byte
)

// SetSecret overrides the signing key. An empty secret means a random
// per-process key is generated on first use.
func SetSecret(secret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secretKey = []byte(secret)
}

func getSecret() []byte {
	secretMu.RLock()
	key := secretKey
	secretMu.RUnlock()
	if len(key) > 0 {
		return key
	}

	secretMu.Lock()
	defer secretMu.Unlock()
	if len(secretKey) == 0 {
		if s := config.AppConfig.JWTSecret; s != "" {
			secretKey = []byte(s)
		} else {
			buf := make([]byte, 32)
			_, _ = rand.Read(buf)
			secretKey = []byte(hex.EncodeToString(buf))
			GetLogger().Warn("JWT_SECRET not set, identity tokens will not survive a restart")
		}
	}
	return secretKey
}

// GenerateToken signs an identity token for the given user.
func GenerateToken(u models.CurrentUser, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return getSecret(), nil
	})
}

// IdentityFromToken returns the user a valid token was issued for.
func IdentityFromToken(tokenString string) (models.CurrentUser, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.CurrentUser{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.CurrentUser{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.CurrentUser{}, errors.New("token does not contain a valid 'sub' claim")
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return models.CurrentUser{ID: sub, Name: name, Email: email}, nil
}
