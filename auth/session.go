// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Kind identifies which principal a session belongs to
type Kind string

const (
	KindVoter Kind = "voter"
	KindAdmin Kind = "admin"
)

// SessionTTL is how long an issued session token stays valid
const SessionTTL = 2 * time.Hour

const issuer = "quickly-vote"

var (
	ErrMissingToken = errors.New("missing session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Payload is the data carried by a session: VoterID for voters,
// AdminID and Username for admins.
type Payload struct {
	VoterID  int64  `json:"voterId,omitempty"`
	AdminID  int64  `json:"adminId,omitempty"`
	Username string `json:"username,omitempty"`
}

type sessionClaims struct {
	Kind Kind `json:"kind"`
	Payload
	jwt.RegisteredClaims
}

// Sessions issues and validates signed session tokens. Each kind is signed
// with its own key derived from the configured secret, so a voter token can
// never verify as an admin token.
type Sessions struct {
	keys map[Kind][]byte
	ttl  time.Duration
	now  func() time.Time
}

func NewSessions(secret string) *Sessions {
	return &Sessions{
		keys: map[Kind][]byte{
			KindVoter: deriveKey(secret, KindVoter),
			KindAdmin: deriveKey(secret, KindAdmin),
		},
		ttl: SessionTTL,
		now: time.Now,
	}
}

func deriveKey(secret string, kind Kind) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte("session:" + string(kind)))
	return h.Sum(nil)
}

// Issue signs a token for kind carrying p. It returns the token and its expiry.
func (s *Sessions) Issue(kind Kind, p Payload) (string, time.Time, error) {
	key, ok := s.keys[kind]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown session kind %q", kind)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	subject := strconv.FormatInt(p.VoterID, 10)
	if kind == KindAdmin {
		subject = strconv.FormatInt(p.AdminID, 10)
	}

	claims := sessionClaims{
		Kind:    kind,
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{string(kind)},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate checks the signature, expiry and kind of token and returns its payload
func (s *Sessions) Validate(kind Kind, token string) (Payload, error) {
	if token == "" {
		return Payload{}, ErrMissingToken
	}
	key, ok := s.keys[kind]
	if !ok {
		return Payload{}, ErrInvalidToken
	}

	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Payload{}, ErrInvalidToken
	}

	if claims.Kind != kind || !claims.VerifyAudience(string(kind), true) || !claims.VerifyIssuer(issuer, true) {
		return Payload{}, ErrInvalidToken
	}

	return claims.Payload, nil
}
