package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de sujeto de sesión.
const (
	KindUser     = "user"
	KindReferrer = "referrer"
)

// Identity datos de sesión que viajan en el token. Se evita consultar la DB en cada request.
type Identity struct {
	Kind      string   `json:"kind"`
	UserID    string   `json:"user_id"`
	CompanyID string   `json:"company_id"` // vacío para platform_admin
	Roles     []string `json:"roles"`
	StoreID   string   `json:"store_id,omitempty"`
	Name      string   `json:"name"`
}

// Claims incluye los claims estándar JWT más la identidad de la sesión.
type Claims struct {
	jwt.RegisteredClaims
	Identity
}

// Generate firma un token HS256 para la identidad indicada.
func Generate(secret string, id Identity, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if id.Kind == "" {
		id.Kind = KindUser
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		Identity: id,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve la identidad.
func Parse(secret, tokenString string) (*Identity, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token sin sujeto")
	}
	id := claims.Identity
	return &id, nil
}
