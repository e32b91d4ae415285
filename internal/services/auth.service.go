package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService manages JWT token generation and validation
type AuthService struct {
	secretKey   string
	tokenExpiry time.Duration
}

// CustomClaims represents the JWT claims structure
type CustomClaims struct {
	ServerName string `json:"server_name"`
	UserAgent  string `json:"user_agent"`
	jwt.RegisteredClaims
}

var authService *AuthService

// InitAuthService initializes the authentication service. When secretKey
// is empty a key is loaded from (or generated and persisted to) keyFile.
func InitAuthService(secretKey, keyFile string, tokenExpiry time.Duration) *AuthService {
	if secretKey == "" {
		if data, err := os.ReadFile(keyFile); err == nil && len(data) > 0 {
			secretKey = strings.TrimSpace(string(data))
			log.Printf("Loaded persisted secret key from %s (length: %d bytes)", keyFile, len(secretKey))
		} else {
			secretKey = generateSecretKey()
			if err := os.WriteFile(keyFile, []byte(secretKey), 0600); err != nil {
				log.Printf("Warning: Could not persist secret key to %s: %v", keyFile, err)
			} else {
				log.Printf("Generated and persisted secret key to %s (length: %d bytes)", keyFile, len(secretKey))
			}
		}
	}

	if tokenExpiry == 0 {
		tokenExpiry = 90 * 24 * time.Hour
	}

	secretKey = strings.TrimSpace(secretKey)

	// HMAC-SHA256 wants at least 32 bytes of key material.
	if len(secretKey) < 32 {
		log.Printf("Warning: Secret key is only %d bytes, padding to 32", len(secretKey))
		padding := make([]byte, 32-len(secretKey))
		_, _ = rand.Read(padding)
		secretKey += hex.EncodeToString(padding)
	}

	authService = &AuthService{
		secretKey:   secretKey,
		tokenExpiry: tokenExpiry,
	}

	return authService
}

func generateSecretKey() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "opsdeck-agent"
	}

	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("opsdeck-%s-%d-backup", hostname, time.Now().UnixNano())
	}
	return fmt.Sprintf("opsdeck-%s-%s", hostname, hex.EncodeToString(randomBytes))
}

// GenerateToken creates a new JWT token with server details
func GenerateToken(serverName string) (string, error) {
	if authService == nil {
		return "", fmt.Errorf("auth service not initialized")
	}

	now := time.Now()
	expiresAt := now.Add(authService.tokenExpiry)

	claims := CustomClaims{
		ServerName: serverName,
		UserAgent:  "opsdeck-agent",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "opsdeck-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(authService.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken verifies and parses a JWT token
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if authService == nil {
		return nil, fmt.Errorf("auth service not initialized")
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(authService.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetTokenExpiry returns the configured token lifetime
func GetTokenExpiry() time.Duration {
	if authService == nil {
		return 0
	}
	return authService.tokenExpiry
}

// GetAuthService returns the initialized auth service
func GetAuthService() *AuthService {
	return authService
}
