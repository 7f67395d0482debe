package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"coedit/gateway/internal/models"
)

// ErrInvalidToken covers every token verification failure: bad signature,
// expired, malformed. Callers only ever see accept or reject.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims — клейми identity-токена. Бекенд підписує їх HS256 спільним секретом.
type Claims struct {
	jwt.RegisteredClaims
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Verifier перевіряє identity-токени спільним секретом.
type Verifier struct {
	secret []byte
}

// NewVerifier створює Verifier із секретом.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify перевіряє підпис і термін дії токена та повертає клейми користувача.
// Будь-яка помилка розбору чи перевірки згортається в ErrInvalidToken —
// деталі за цю межу не виходять.
func (v *Verifier) Verify(tokenString string) (*models.AuthToken, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.AuthToken{
		ID:       claims.ID,
		Username: claims.Username,
		Email:    claims.Email,
	}, nil
}
