package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer signs HS256 tokens for authenticated users.
type Issuer struct {
	secret SigningSecret
	now    func() time.Time
}

// NewIssuer returns an Issuer bound to secret. An empty secret is a
// configuration error.
func NewIssuer(secret SigningSecret) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, NewError(CodeConfiguration, "signing secret is not set", nil)
	}
	return &Issuer{secret: secret, now: time.Now}, nil
}

// Issue returns a signed token valid for TokenValidity.
func (i *Issuer) Issue(userID int64, email, username string) (string, error) {
	signed, _, err := i.IssueClaims(userID, email, username)
	return signed, err
}

// IssueClaims is Issue that also returns the claims carried by the token.
func (i *Issuer) IssueClaims(userID int64, email, username string) (string, Claims, error) {
	if len(i.secret) == 0 {
		return "", Claims{}, NewError(CodeConfiguration, "signing secret is not set", nil)
	}

	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
		},
		Email:    email,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.secret))
	if err != nil {
		return "", Claims{}, NewError(CodeConfiguration, "sign token", err)
	}
	return signed, claims, nil
}
