package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunargate/lunargate/internal/ratelimit"
)

var (
	// ErrNoCredential indicates the request carried no bearer credential.
	ErrNoCredential = errors.New("no bearer credential")

	// ErrInvalidCredential indicates the credential failed verification.
	ErrInvalidCredential = errors.New("invalid credential")
)

// Verifier resolves a raw bearer token to a caller identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (ratelimit.Identity, error)
}

// JWTVerifier verifies HMAC-signed JWTs. The subject claim becomes the
// identity ID; an optional "type" claim selects the tier.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for tokens signed with secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

type claims struct {
	jwt.RegisteredClaims

	Type string `json:"type,omitempty"`
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (ratelimit.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}

		return v.secret, nil
	})
	if err != nil {
		return ratelimit.Anonymous, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return ratelimit.Anonymous, fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}

	return ratelimit.Identity{
		ID:   c.Subject,
		Tier: tierForType(c.Type),
	}, nil
}

// tierForType maps the token's type claim to a quota tier. Authenticated
// callers without a recognized type get the basic tier.
func tierForType(t string) ratelimit.Tier {
	switch t {
	case "admin":
		return ratelimit.TierAdmin
	case "personal":
		return ratelimit.TierPersonal
	default:
		return ratelimit.TierBasic
	}
}

// Resolve derives the caller identity from an Authorization header value.
// A missing, malformed, or invalid credential degrades to the anonymous
// identity; it never fails the request.
func Resolve(ctx context.Context, verifier Verifier, authorization string) ratelimit.Identity {
	token, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || token == "" {
		return ratelimit.Anonymous
	}

	identity, err := verifier.Verify(ctx, token)
	if err != nil {
		return ratelimit.Anonymous
	}

	return identity
}

// Compile-time check.
var _ Verifier = (*JWTVerifier)(nil)
