package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// BearerScheme is the only accepted Authorization scheme.
const BearerScheme = "Bearer"

// Guard validates bearer tokens presented with protected requests.
// It trusts the signature only; there is no lookup against stored users.
type Guard struct {
	secret SigningSecret
	now    func() time.Time
	logger logging.Logger
}

// NewGuard returns a Guard bound to secret.
func NewGuard(secret SigningSecret, logger logging.Logger) (*Guard, error) {
	if len(secret) == 0 {
		return nil, NewError(CodeConfiguration, "signing secret is not set", nil)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Guard{
		secret: secret,
		now:    time.Now,
		logger: logger.With("module", "auth_guard"),
	}, nil
}

// Authenticate checks a raw Authorization header value and returns the
// token claims. The checks run in order and each has its own outcome:
//
//  1. header present with the Bearer scheme, else ErrMissingCredentials
//  2. token well formed, else ErrMalformedToken
//  3. HS256 signature valid for the shared secret, else ErrInvalidToken
//  4. expiry still in the future, else ErrExpiredToken
func (g *Guard) Authenticate(ctx context.Context, header string) (Claims, error) {
	start := g.now()

	raw, ok := bearerToken(header)
	if !ok {
		err := NewError(CodeMissingCredentials, "authorization header missing or not bearer", nil)
		g.logFailure(ctx, raw, err, start)
		return Claims{}, err
	}

	claims, err := g.parse(raw)
	if err != nil {
		g.logFailure(ctx, raw, err, start)
		return Claims{}, err
	}

	g.logger.Debug(ctx, "authentication succeeded", "auth_event", SecurityEvent{
		Outcome:   "success",
		RequestID: RequestIDFromContext(ctx),
		Subject:   claims.Subject,
		Token:     raw,
		Latency:   g.now().Sub(start),
	})

	return claims, nil
}

func (g *Guard) parse(raw string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(g.now),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(raw, &claims, g.keyFunc)
	if err != nil {
		return Claims{}, classify(err)
	}
	if !token.Valid {
		return Claims{}, NewError(CodeInvalidToken, "token is not valid", nil)
	}
	if claims.Subject == "" {
		return Claims{}, NewError(CodeMalformedToken, "token has no subject", nil)
	}
	return claims, nil
}

func (g *Guard) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return []byte(g.secret), nil
}

// classify maps jwt parse errors onto the guard outcomes. The parser
// verifies the signature before it validates claims, so a forged expired
// token is reported as invalid rather than expired.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return NewError(CodeMalformedToken, "token is malformed", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return NewError(CodeInvalidToken, "signature verification failed", err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return NewError(CodeExpiredToken, "token has expired", err)
	default:
		return NewError(CodeInvalidToken, "token rejected", err)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (g *Guard) logFailure(ctx context.Context, raw string, err error, start time.Time) {
	var code ErrorCode
	var authErr *Error
	if errors.As(err, &authErr) {
		code = authErr.Code
	}
	g.logger.Warn(ctx, "authentication failed", "auth_event", SecurityEvent{
		Outcome:   "failure",
		RequestID: RequestIDFromContext(ctx),
		Reason:    string(code),
		Token:     raw,
		Latency:   g.now().Sub(start),
	})
}
