package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is the fixed lifetime of an issued token.
const TokenValidity = time.Hour

// Claims is the payload of an issued token: the subject (user id), the
// expiry and the display fields the client needs.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username"`
}

// UserID parses the subject back into the numeric user id.
func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Expiry returns the absolute expiry time, or the zero time if unset.
func (c Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// SigningSecret is the symmetric key shared by Issuer and Guard.
type SigningSecret []byte

// NewSigningSecret validates and copies the configured secret.
func NewSigningSecret(secret string) (SigningSecret, error) {
	if secret == "" {
		return nil, NewError(CodeConfiguration, "signing secret is not set", nil)
	}
	return SigningSecret(secret), nil
}
