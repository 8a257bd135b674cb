package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
)

const (
	TokenTTL = 7 * 24 * time.Hour

	pbkdf2Iterations = 10000
	digestLength     = 32
)

type Claims struct {
	Email    string `json:"email"`
	UserType string `json:"user_type"`
	jwt.RegisteredClaims
}

// Credentials hashes passwords and issues/verifies bearer tokens. The digest
// uses one static salt for every user, so equal passwords share a digest.
type Credentials struct {
	secret []byte
	salt   []byte
	method jwt.SigningMethod
	now    func() time.Time
}

func NewCredentials(secret, salt, algorithm string) (*Credentials, error) {
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q: only HMAC algorithms are allowed", algorithm)
	}
	return &Credentials{
		secret: []byte(secret),
		salt:   []byte(salt),
		method: method,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source used for issuing and validating tokens.
func (c *Credentials) WithClock(now func() time.Time) *Credentials {
	c.now = now
	return c
}

func (c *Credentials) Hash(password string) string {
	key := pbkdf2.Key(append([]byte(password), c.secret...), c.salt, pbkdf2Iterations, digestLength, sha256.New)
	return hex.EncodeToString(key)
}

func (c *Credentials) Verify(password, digest string) bool {
	if digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Hash(password)), []byte(digest)) == 1
}

func (c *Credentials) IssueToken(userID, email, role string) (string, error) {
	now := c.now()
	claims := Claims{
		Email:    email,
		UserType: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// ResolveToken checks signature and expiry and returns the token's claims.
func (c *Credentials) ResolveToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
