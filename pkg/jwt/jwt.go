package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken el token no se pudo decodificar o no tiene los claims esperados.
var ErrInvalidToken = errors.New("jwt: token inválido")

// Claims claims que emite el backend de la plataforma. El id del usuario puede
// venir como "id", "userId" o en "sub"; la tienda del vendedor en "shopId".
type Claims struct {
	jwt.RegisteredClaims
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId,omitempty"`
	Role   string `json:"role"` // "customer" | "seller" | "admin"
	ShopID string `json:"shopId,omitempty"`
}

// User id del usuario según el primer campo presente.
func (c Claims) User() string {
	switch {
	case c.UserID != "":
		return c.UserID
	case c.ID != "":
		return c.ID
	default:
		return c.RegisteredClaims.Subject
	}
}

// Generate firma un token HS256. Lo usan los tests y el backend falso de desarrollo.
func Generate(secret, userID, role, shopID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
		ShopID: shopID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse decodifica el token. Con secret verifica firma y expiración; sin secret
// solo decodifica, porque quien valida el token es el backend y aquí se usa
// únicamente para elegir la consola según el rol.
func Parse(secret, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if exp := claims.ExpiresAt; exp != nil && exp.Before(time.Now()) {
			return nil, fmt.Errorf("%w: expirado", ErrInvalidToken)
		}
		return claims, nil
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
