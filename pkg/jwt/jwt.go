package jwt

import (
	"context"
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by gatekeeper tokens. The subject is the user ID.
type Claims struct {
	TenantID string `json:"tenant_id,omitempty"`
	Role     string `json:"role,omitempty"`
	gojwt.RegisteredClaims
}

// Principal is the verified identity behind a request credential.
type Principal struct {
	UserID   string
	TenantID string // optional claim
	Role     string // optional claim
}

// Verifier turns a raw credential into a Principal.
// Implementations return an error for any credential that is not valid.
type Verifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, token string) (Principal, error)

// Verify calls f.
func (f VerifierFunc) Verify(ctx context.Context, token string) (Principal, error) {
	return f(ctx, token)
}

// Service signs and verifies HS256 tokens.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	leeway     time.Duration
	now        func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithIssuer sets the iss claim on issued tokens and requires it when parsing.
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// WithTTL sets the lifetime of tokens created by Issue.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLeeway tolerates clock skew when validating exp and nbf.
func WithLeeway(d time.Duration) Option {
	return func(s *Service) { s.leeway = d }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Service with the given HMAC key.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	s := &Service{
		signingKey: signingKey,
		ttl:        24 * time.Hour,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString is New for string keys.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Generate signs arbitrary claims.
func (s *Service) Generate(claims gojwt.Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Issue creates a token for userID with optional tenant and role claims.
func (s *Service) Issue(userID, tenantID, role string) (string, error) {
	if userID == "" {
		return "", ErrMissingSubject
	}
	now := s.now()
	return s.Generate(Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
}

// Parse validates the token and returns its claims.
func (s *Service) Parse(token string) (*Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithTimeFunc(s.now),
		gojwt.WithLeeway(s.leeway),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(token, claims, func(t *gojwt.Token) (any, error) {
		if t.Method != gojwt.SigningMethodHS256 {
			return nil, ErrUnexpectedSigningMethod
		}
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		return nil, mapError(err)
	}
	return claims, nil
}

// Verify implements Verifier.
func (s *Service) Verify(_ context.Context, token string) (Principal, error) {
	claims, err := s.Parse(token)
	if err != nil {
		return Principal{}, err
	}
	if claims.Subject == "" {
		return Principal{}, ErrMissingSubject
	}
	return Principal{
		UserID:   claims.Subject,
		TenantID: claims.TenantID,
		Role:     claims.Role,
	}, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrUnexpectedSigningMethod):
		return err
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
