package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("username or email already taken")
	ErrInvalidInput  = errors.New("invalid request")
	ErrUnexpectedAPI = errors.New("unexpected server response")
)
