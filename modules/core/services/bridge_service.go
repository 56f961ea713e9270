package services

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brandassets/dam/pkg/serrors"
)

// ErrTokenInvalid deliberately collapses every verification failure (bad
// signature, wrong target domain, expired) into one outcome so callers
// cannot probe which check failed.
var ErrTokenInvalid = serrors.NewError("token_invalid", "bridge token invalid", "")

type bridgeClaims struct {
	TargetDomain string `json:"dom"`
	jwt.RegisteredClaims
}

// BridgeService issues and redeems the short-lived signed tokens that carry
// an authenticated session across a subdomain boundary. Cookies set for one
// tenant subdomain are invisible to its siblings; the token is a one-shot
// credential replaying an existing server-side session, not a general auth
// mechanism.
type BridgeService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type BridgeOption func(*BridgeService)

// WithClock overrides the time source in tests.
func WithClock(now func() time.Time) BridgeOption {
	return func(s *BridgeService) {
		s.now = now
	}
}

func NewBridgeService(secret string, ttl time.Duration, opts ...BridgeOption) *BridgeService {
	s := &BridgeService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for userID scoped to exactly one target host. Expiry
// is stamped with the server clock; clients never supply timestamps.
func (s *BridgeService) Issue(userID uuid.UUID, targetHost string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("bridge signing secret is not configured")
	}

	now := s.now()
	claims := &bridgeClaims{
		TargetDomain: normalizeBridgeHost(targetHost),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Redeem verifies the token against the current request host and returns
// the embedded user id. Redemption only reads and re-asserts an existing
// session, so near-simultaneous redemptions of the same token may both
// succeed within the expiry window.
func (s *BridgeService) Redeem(token, currentHost string) (uuid.UUID, error) {
	if len(s.secret) == 0 {
		return uuid.Nil, fmt.Errorf("bridge signing secret is not configured")
	}

	claims := &bridgeClaims{}
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	if claims.TargetDomain == "" || claims.TargetDomain != normalizeBridgeHost(currentHost) {
		return uuid.Nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}

func normalizeBridgeHost(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if h, _, err := net.SplitHostPort(raw); err == nil {
		return h
	}
	return raw
}
