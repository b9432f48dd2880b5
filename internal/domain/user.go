// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"unicode/utf8"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 64
)

var (
	ErrUserIDEmpty     = errors.New("user id empty")
	ErrUserIDTooLong   = errors.New("user id too long")
	ErrUsernameTooLong = errors.New("username too long")
)

type UserID string

// Identity is the verified caller of a connection or request.
// Owned by the external identity system; chat only reads it.
type Identity struct {
	ID       UserID `json:"userId"`
	Username string `json:"userName"`
	Avatar   string `json:"avatar,omitempty"`
}

// NewIdentity is a tiny helper to avoid ad-hoc struct literals in adapters.
// An empty username falls back to the user id.
func NewIdentity(id, username, avatar string) (*Identity, error) {
	if id == "" {
		return nil, ErrUserIDEmpty
	}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	if username == "" {
		username = id
	}
	return &Identity{ID: UserID(id), Username: username, Avatar: avatar}, nil
}
