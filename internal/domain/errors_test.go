package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrCredentialRequired, CodeAuthInvalid},
		{fmt.Errorf("verify: %w", ErrCredentialInvalid), CodeAuthInvalid},
		{fmt.Errorf("user u on p: %w", ErrForbidden), CodeForbidden},
		{fmt.Errorf("project p: %w", ErrNotFound), CodeNotFound},
		{fmt.Errorf("%w: text empty", ErrValidation), CodeValidation},
		{errors.Join(ErrStorage, errors.New("disk full")), CodeStorage},
		{errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Code(tt.err), "%v", tt.err)
	}
}

func TestNewIdentity(t *testing.T) {
	id, err := NewIdentity("u1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.Username, "username falls back to id")

	id, err = NewIdentity("u1", "Ada", "a.png")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "u1", Username: "Ada", Avatar: "a.png"}, id)

	_, err = NewIdentity("", "Ada", "")
	assert.ErrorIs(t, err, ErrUserIDEmpty)
	_, err = NewIdentity(strings.Repeat("x", MaxUserIDLen+1), "", "")
	assert.ErrorIs(t, err, ErrUserIDTooLong)
	_, err = NewIdentity("u1", strings.Repeat("é", MaxUsernameLen+1), "")
	assert.ErrorIs(t, err, ErrUsernameTooLong)
}
