package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

type CustomClaims struct {
	Role        string `json:"role"`
	Email       string `json:"email"`
	AppMetadata struct {
		Provider  string   `json:"provider"`
		Providers []string `json:"providers"`
		Roles     []string `json:"roles,omitempty"`
	} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// TokenValidator verifies access tokens either against a remote JWKS or a
// shared HMAC secret. Build it once at startup and Close it on shutdown.
type TokenValidator struct {
	secret []byte
	jwks   *keyfunc.JWKS
}

func NewTokenValidator(ctx context.Context, secret, jwksURL string) (*TokenValidator, error) {
	tv := &TokenValidator{secret: []byte(secret)}
	if jwksURL == "" {
		if secret == "" {
			return nil, errors.New("either a JWT secret or a JWKS URL is required")
		}
		return tv, nil
	}

	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	tv.jwks = jwks
	return tv, nil
}

func (tv *TokenValidator) keyFunc(token *jwt.Token) (interface{}, error) {
	if tv.jwks != nil {
		return tv.jwks.Keyfunc(token)
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return tv.secret, nil
}

func (tv *TokenValidator) ValidateToken(tokenStr string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, tv.keyFunc,
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (tv *TokenValidator) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}

// SignToken issues an HMAC-signed access token. Used by local tooling and tests.
func SignToken(secret string, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
