package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kartyapp/authcore/internal/common"
)

// Claims is the claim set carried by access tokens: the registered subject,
// issued-at and expiry claims, nothing more.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 access tokens. The secret key is fixed at
// construction; rotating it invalidates every previously issued token. The
// clock is injected so tests can simulate expiry deterministically.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec constructs a Codec with the given signing secret. If now is nil,
// time.Now is used.
func NewCodec(secret []byte, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: secret, now: now}
}

// Issue returns a signed token whose subject is userID, valid for ttl from
// the codec's current time.
func (c *Codec) Issue(userID string, ttl time.Duration) (string, time.Time, error) {
	issuedAt := c.now()
	expiresAt := issuedAt.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// Verify decodes tokenString, checks the signature and expiry, and returns
// the subject user id. Failures map to three distinct kinds:
//
//	common.ErrMalformedToken   — the string is not a decodable token
//	common.ErrInvalidSignature — signature mismatch (tampering or wrong key)
//	common.ErrTokenExpired     — now >= expires_at
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", common.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", common.ErrInvalidSignature
		default:
			return "", common.ErrMalformedToken
		}
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrMalformedToken
	}

	return claims.Subject, nil
}
