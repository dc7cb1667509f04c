// Package auth issues and verifies the HS256 access tokens that identify
// the profile owner on every API call.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/expertprofile/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is who the caller is, as asserted by the token. It also seeds
// the profile row the first time a user opens the page.
type Identity struct {
	UserID   string
	Email    string
	Username string
}

// Claims carries the identity next to the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// GenerateToken signs an access token for id, valid for ttl.
func GenerateToken(id Identity, secretKey []byte, ttl time.Duration) (string, error) {
	if _, err := uuid.Parse(id.UserID); err != nil {
		return "", fmt.Errorf("user id must be a uuid: %w", err)
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
	})
	return token.SignedString(secretKey)
}

// ParseToken verifies tokenString and returns the identity it carries.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// verification yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("%w: bad user id", common.ErrInvalidToken)
	}

	return &Identity{UserID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}
