// Package client is a small HTTP client for the gophauth REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Session is what a successful login returns.
type Session struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Email    string `json:"user_email"`
	UserName string `json:"user_username"`
}

// Me describes the caller as seen by the server.
type Me struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	UserName  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ping checks that the server answers on its root route.
func (c *APIClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", "", nil, nil)
}

func (c *APIClient) Register(ctx context.Context, userName, email string, password []byte) (*models.PublicUser, error) {
	body := credentialsBody([][2]string{{"username", userName}, {"email", email}}, password)
	defer common.WipeByteArray(body)

	var out models.PublicUser
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	body := credentialsBody([][2]string{{"email", email}}, password)
	defer common.WipeByteArray(body)

	var out Session
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ListUsers(ctx context.Context, token string) ([]models.PublicUser, error) {
	var out []models.PublicUser
	if err := c.do(ctx, http.MethodGet, "/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Me(ctx context.Context, token string) (*Me, error) {
	var out Me
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) do(ctx context.Context, method, path, token string, in []byte, out any) error {
	var body io.Reader
	if in != nil {
		body = bytes.NewReader(in)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return ErrConflict
	case resp.StatusCode == http.StatusBadRequest:
		return ErrInvalidInput
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s", ErrUnexpectedAPI, resp.Status)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedAPI, err)
	}
	return nil
}

// credentialsBody encodes fields plus a "password" member into a JSON
// object. The password is escaped straight from its byte slice so the
// caller can wipe both the slice and the returned body.
func credentialsBody(fields [][2]string, password []byte) []byte {
	prefix := []byte{'{'}
	for _, f := range fields {
		k, _ := json.Marshal(f[0])
		v, _ := json.Marshal(f[1])
		prefix = append(prefix, k...)
		prefix = append(prefix, ':')
		prefix = append(prefix, v...)
		prefix = append(prefix, ',')
	}
	prefix = append(prefix, `"password":"`...)

	// sized for the worst case so the password is never reallocated
	b := make([]byte, 0, len(prefix)+6*len(password)+2)
	b = append(b, prefix...)
	b = appendEscaped(b, password)
	return append(b, '"', '}')
}

const hexDigits = "0123456789abcdef"

func appendEscaped(dst, src []byte) []byte {
	for _, c := range src {
		switch {
		case c == '"' || c == '\\':
			dst = append(dst, '\\', c)
		case c < 0x20:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	return dst
}
