// Package auth verifies the bearer tokens presented on the upload surface.
// Two token shapes are accepted: entries from the configured token list
// (clear or argon2id-hashed) and HS256 service JWTs whose ServiceID claim
// must match the service being addressed.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/common"
	"github.com/cds-snc/notification-document-download-api/internal/cryptox"
)

// Claims includes the registered claims plus the service the token was
// minted for.
type Claims struct {
	jwt.RegisteredClaims
	ServiceID string
}

// GenerateServiceToken mints an HS256 JWT scoped to one service.
func GenerateServiceToken(serviceID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		ServiceID: serviceID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetServiceIDFromToken validates a service JWT and extracts its ServiceID
// claim.
func GetServiceIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.ServiceID, nil
}

// Verifier checks presented bearer tokens against the configured token list
// and the JWT secret.
type Verifier struct {
	tokens []string
	secret []byte
}

func NewVerifier(tokens []string, secretKey string) *Verifier {
	return &Verifier{tokens: tokens, secret: []byte(secretKey)}
}

// Verify reports nil when the presented token authorizes requests for the
// given service. Static tokens authorize any service; a JWT only its own.
func (v *Verifier) Verify(presented string, serviceID uuid.UUID) error {
	if presented == "" {
		return common.ErrorUnauthorized
	}

	for _, configured := range v.tokens {
		if cryptox.VerifyAuthToken(presented, configured) {
			return nil
		}
	}

	claimed, err := GetServiceIDFromToken(presented, v.secret)
	if err != nil {
		return common.ErrInvalidToken
	}
	if claimed != serviceID.String() {
		return common.ErrInvalidToken
	}
	return nil
}
