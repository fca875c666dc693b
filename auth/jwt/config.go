package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

// HMAC methods. Keys are shared secrets.
const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// minSecretLen is the shortest accepted HMAC secret.
const minSecretLen = 32

// Config configures token verification.
type Config struct {
	// Secret is the HMAC key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`
	// Issuer is the required "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Audience is the required "aud" claim (optional).
	Audience string `yaml:"audience" mapstructure:"audience"`
	// Leeway tolerates clock skew on time claims.
	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
	// TokenTTL is the lifetime of tokens minted by Sign (default: 1h).
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = time.Hour
	}
}

// Validate checks the secret and method.
func (c *Config) Validate() error {
	if c.signingMethod() == nil {
		return errors.New("jwt: unsupported signing method: " + string(c.Method))
	}
	if len(c.Secret) < minSecretLen {
		return errors.New("jwt: secret must be at least 32 bytes")
	}
	return nil
}

// signingMethod returns the golang-jwt method, or nil if unsupported.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS256:
		return gojwt.SigningMethodHS256
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return nil
	}
}
