package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/bookshelf/internal/bookshelf/domain/models"
	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	ID   int         `json:"id"`
	Role models.Role `json:"role"`
	jwt.StandardClaims
}

// GetToken signs {id, role} with HS256. A zero ttl omits the exp claim.
func GetToken(u models.User, ttl time.Duration, secret string) (string, error) {
	claims := Claims{ //nolint:exhaustruct
		ID:   u.ID,
		Role: u.Role,
	}

	now := time.Now()
	claims.IssuedAt = now.Unix()

	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signed string error: %w", err)
	}

	return signed, nil
}

func ParseToken(token, secret string) (Claims, error) {
	var claims Claims

	t, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !t.Valid || claims.ID == 0 {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

type claimsKey struct{}

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(Claims)

	return c, ok
}
