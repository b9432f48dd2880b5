// Package auth verifies the pre-issued bearer credential presented by chat
// clients. Verification is local: signature, issuer and expiry only.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an identity token.
type Claims struct {
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

type Config struct {
	Secret string
	Issuer string
}

type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(cfg Config) *Verifier {
	return &Verifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Verify checks credential and returns the identity it carries.
// An empty credential is domain.ErrCredentialRequired; anything else that
// fails is domain.ErrCredentialInvalid.
func (v *Verifier) Verify(credential string) (*domain.Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, domain.ErrCredentialRequired
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(credential, &Claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(domain.ErrCredentialInvalid, jwt.ErrTokenExpired)
		}
		return nil, domain.ErrCredentialInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrCredentialInvalid
	}
	id, err := domain.NewIdentity(claims.Subject, claims.Name, claims.Avatar)
	if err != nil {
		return nil, domain.ErrCredentialInvalid
	}
	return id, nil
}

// Signer mints identity tokens. Issuance belongs to the identity system;
// this exists for the dev CLI and tests.
type Signer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewSigner(cfg Config) *Signer {
	return &Signer{secret: []byte(cfg.Secret), issuer: cfg.Issuer, now: time.Now}
}

func (s *Signer) Issue(id domain.Identity, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Name:   id.Username,
		Avatar: id.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   string(id.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
