package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"syntra-backoffice/internal/session"
)

var JwtSecret = []byte("dev-backoffice-secret")

var ErrInvalidToken = errors.New("invalid token")

// SetSecret replaces the signing key. Empty secrets are ignored.
func SetSecret(secret string) {
	if secret != "" {
		JwtSecret = []byte(secret)
	}
}

type Claims struct {
	UserId    int64   `json:"user_id"`
	Role      string  `json:"role"`
	BranchIDs []int64 `json:"branch_ids"`
	jwt.RegisteredClaims
}

// Session returns the claims as the explicit session passed to services.
func (c *Claims) Session() session.Session {
	return session.Session{UserID: c.UserId, Role: c.Role, BranchIDs: c.BranchIDs}
}

func GenerateToken(userID int64, role string, branchIDs []int64, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserId:    userID,
		Role:      role,
		BranchIDs: branchIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(JwtSecret)
	return s, exp, err
}

func ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return JwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserId > 0 {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
