// Package jwt signs and verifies HMAC JSON Web Tokens with golang-jwt.
//
//	svc, err := jwt.NewService(cfg)
//	token, err := svc.Sign("user-123")
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service signs and parses tokens for one configuration.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService validates cfg and creates a service.
func NewService(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// Sign mints a token for subject with the configured issuer, audience and
// TTL.
func (s *Service) Sign(subject string) (string, error) {
	now := s.now()
	claims := gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	if s.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{s.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, expiry and, when configured, issuer and
// audience, and returns the claims.
func (s *Service) Parse(tokenString string) (gojwt.MapClaims, error) {
	claims := gojwt.MapClaims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("jwt: invalid token")
	}
	return claims, nil
}

// ValidatorFunc adapts Parse to the server auth middleware.
func (s *Service) ValidatorFunc() func(string) (map[string]any, error) {
	return func(token string) (map[string]any, error) {
		claims, err := s.Parse(token)
		if err != nil {
			return nil, err
		}
		return claims, nil
	}
}

func (s *Service) keyFunc(token *gojwt.Token) (any, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.cfg.Leeway))
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience))
	}
	return opts
}
