package auth

import (
	"testing"
	"time"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = Config{Secret: "test-secret", Issuer: "projectchat"}

func issue(t *testing.T, cfg Config, id domain.Identity, ttl time.Duration) string {
	t.Helper()
	tok, err := NewSigner(cfg).Issue(id, ttl)
	require.NoError(t, err)
	return tok
}

func TestVerify_RoundTrip(t *testing.T) {
	tok := issue(t, testCfg, domain.Identity{ID: "u1", Username: "Ada", Avatar: "ada.png"}, time.Hour)

	id, err := NewVerifier(testCfg).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), id.ID)
	assert.Equal(t, "Ada", id.Username)
	assert.Equal(t, "ada.png", id.Avatar)
}

func TestVerify_Rejections(t *testing.T) {
	v := NewVerifier(testCfg)

	expired := NewSigner(testCfg)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTok, err := expired.Issue(domain.Identity{ID: "u1"}, time.Hour)
	require.NoError(t, err)

	noneTok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testCfg.Issuer,
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpTok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: testCfg.Issuer, Subject: "u1"},
	}).SignedString([]byte(testCfg.Secret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"empty", "", domain.ErrCredentialRequired},
		{"blank", "   ", domain.ErrCredentialRequired},
		{"garbage", "not-a-jwt", domain.ErrCredentialInvalid},
		{"wrong secret", issue(t, Config{Secret: "other", Issuer: testCfg.Issuer}, domain.Identity{ID: "u1"}, time.Hour), domain.ErrCredentialInvalid},
		{"wrong issuer", issue(t, Config{Secret: testCfg.Secret, Issuer: "elsewhere"}, domain.Identity{ID: "u1"}, time.Hour), domain.ErrCredentialInvalid},
		{"expired", expiredTok, jwt.ErrTokenExpired},
		{"alg none", noneTok, domain.ErrCredentialInvalid},
		{"no expiry", noExpTok, domain.ErrCredentialInvalid},
		{"no subject", issue(t, testCfg, domain.Identity{}, time.Hour), domain.ErrCredentialInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(tt.token)
			assert.Nil(t, id)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, domain.CodeAuthInvalid, domain.Code(err))
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BearerToken(tt.header), tt.header)
	}
}
