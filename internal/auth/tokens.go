// Package auth issues and verifies the short-lived tokens behind voter
// magic links, browser sessions, and organizer password recovery.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/justCallMeJeg/eboto/internal/domain/common"
)

// TokenKind discriminates what a token grants. Parse rejects tokens of
// the wrong kind, so a magic link can never be replayed as a session.
type TokenKind string

const (
	KindMagicLink        TokenKind = "magic"
	KindVoterSession     TokenKind = "voter_session"
	KindOrganizerSession TokenKind = "organizer_session"
	KindRecovery         TokenKind = "recovery"
)

// Claims are the JWT claims carried by every token the service issues.
type Claims struct {
	Kind       TokenKind `json:"kind"`
	ElectionID string    `json:"election_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens.
type TokenIssuer struct {
	secret       []byte
	magicLinkTTL time.Duration
	sessionTTL   time.Duration
}

// NewTokenIssuer creates a token issuer with the given signing secret
// and lifetimes.
func NewTokenIssuer(secret string, magicLinkTTL, sessionTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:       []byte(secret),
		magicLinkTTL: magicLinkTTL,
		sessionTTL:   sessionTTL,
	}
}

// IssueMagicLink issues a single-purpose login token for a voter of the
// given election. The subject is the voter ID.
func (t *TokenIssuer) IssueMagicLink(voterID, electionID string) (string, error) {
	return t.sign(KindMagicLink, voterID, electionID, t.magicLinkTTL)
}

// IssueVoterSession issues a session token for a voter who followed a
// valid magic link.
func (t *TokenIssuer) IssueVoterSession(voterID, electionID string) (string, error) {
	return t.sign(KindVoterSession, voterID, electionID, t.sessionTTL)
}

// IssueOrganizerSession issues a session token for an organizer account.
func (t *TokenIssuer) IssueOrganizerSession(organizerID string) (string, error) {
	return t.sign(KindOrganizerSession, organizerID, "", t.sessionTTL)
}

// IssueRecovery issues a password-recovery token for an organizer. It
// shares the magic-link lifetime.
func (t *TokenIssuer) IssueRecovery(organizerID string) (string, error) {
	return t.sign(KindRecovery, organizerID, "", t.magicLinkTTL)
}

func (t *TokenIssuer) sign(kind TokenKind, subject, electionID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Kind:       kind,
		ElectionID: electionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature, expiry, and kind. Any failure maps
// to common.ErrUnauthorized so handlers do not leak token internals.
func (t *TokenIssuer) Parse(tokenString string, kind TokenKind) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", common.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", common.ErrUnauthorized)
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: token kind mismatch", common.ErrUnauthorized)
	}

	return claims, nil
}
