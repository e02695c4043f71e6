// Package auth protege as rotas administrativas (listagem, export e
// estatísticas de cadastros) com JWT HS256.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims do token de acesso do painel admin.
type Claims struct {
	Login   string `json:"login"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Tempo de vida do access token
const AccessTTL = 8 * time.Hour

// GerarToken emite um JWT HS256 para o operador autenticado.
func GerarToken(secret []byte, login string) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("auth: segredo JWT não configurado")
	}

	now := time.Now()
	claims := &Claims{
		Login:   login,
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "salvo-api",
			Subject:   login,
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// ParseAndValidate valida assinatura, iss e exp.
func ParseAndValidate(secret []byte, tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("salvo-api"),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("auth: token inválido")
	}
	return claims, nil
}
