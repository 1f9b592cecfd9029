package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// PilotToken is the validated identity carried by an ACARS client token.
type PilotToken struct {
	PilotUUID string
	PilotCode string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues and validates the long-lived HMAC tokens the ACARS
// client stores after /api/acars/auth.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
}

func NewTokenService() *TokenService {
	secret := os.Getenv("ACARS_TOKEN_SECRET")
	if secret == "" {
		secret = "dev-insecure-acars-secret"
	}
	return &TokenService{secretKey: []byte(secret), ttl: defaultTokenTTL}
}

func NewTokenServiceWithSecret(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secretKey: secret, ttl: ttl}
}

// Generate signs a token binding the pilot record ID and external code.
func (s *TokenService) Generate(pilotUUID, pilotCode string) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)

	claims := jwt.MapClaims{
		"pilot_uuid": pilotUUID,
		"pilot_code": pilotCode,
		"jti":        uuid.New().String(),
		"exp":        expiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Validate parses a client token and returns the pilot identity.
func (s *TokenService) Validate(tokenString string) (*PilotToken, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	pilotUUID, ok := (*claims)["pilot_uuid"].(string)
	if !ok {
		return nil, errors.New("missing or invalid pilot_uuid claim")
	}
	pilotCode, _ := (*claims)["pilot_code"].(string)
	tokenID, _ := (*claims)["jti"].(string)

	expFloat, ok := (*claims)["exp"].(float64)
	if !ok {
		return nil, errors.New("missing or invalid exp claim")
	}
	expiresAt := time.Unix(int64(expFloat), 0)
	if time.Now().After(expiresAt) {
		return nil, errors.New("token expired")
	}

	return &PilotToken{
		PilotUUID: pilotUUID,
		PilotCode: pilotCode,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}
