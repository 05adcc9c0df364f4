package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ormawa.id/internal/domain"
)

// Claims are the session token claims: user id, role and NIM on top of the
// registered claims.
type Claims struct {
	UserID uint   `json:"id"`
	Role   string `json:"role"`
	NIM    string `json:"nim"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 session token valid for ttl.
func GenerateToken(userID uint, role, nim string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Role:   role,
		NIM:    nim,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

// ParseToken validates a session token and returns its claims. Expired,
// tampered and malformed tokens all come back as domain.ErrUnauthorized; the
// caller cannot tell which, and must not.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
