// Package session issues and verifies the tokens that authenticate dashboard
// (iframe) requests of a merchant user.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/moogar0880/problems"
)

// DefaultTTL is the lifetime of issued tokens.
const DefaultTTL = time.Hour

const localsKey = "ikas.session"

var (
	ErrNotConfigured = errors.New("session secret not configured")
	ErrMissingToken  = errors.New("missing bearer token")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// Claims binds a token to one installation and merchant.
type Claims struct {
	jwt.RegisteredClaims

	AuthorizedAppID string `json:"authorizedAppId"`
	MerchantID      string `json:"merchantId"`
}

// Manager signs and parses HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a Manager. An empty secret yields a Manager that
// rejects every token.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *Manager) Configured() bool {
	return len(m.secret) > 0
}

// Issue signs a token for authorizedAppID and merchantID.
func (m *Manager) Issue(authorizedAppID, merchantID string) (string, error) {
	if !m.Configured() {
		return "", ErrNotConfigured
	}

	if authorizedAppID == "" || merchantID == "" {
		return "", errors.New("authorized app id and merchant id are required")
	}

	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   authorizedAppID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AuthorizedAppID: authorizedAppID,
		MerchantID:      merchantID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse validates token and returns its claims.
func (m *Manager) Parse(token string) (*Claims, error) {
	if !m.Configured() {
		return nil, ErrNotConfigured
	}

	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.AuthorizedAppID == "" || claims.MerchantID == "" {
		return nil, fmt.Errorf("%w: token is not bound to an installation", ErrInvalidToken)
	}

	return claims, nil
}

// Middleware authenticates the request with its Bearer token and stores the
// claims for FromContext. It fails closed when the Manager is not configured.
func (m *Manager) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return unauthorized(c, ErrMissingToken)
		}

		claims, err := m.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			return unauthorized(c, err)
		}

		c.Locals(localsKey, claims)

		return c.Next()
	}
}

// FromContext returns the claims stored by Middleware.
func FromContext(c fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(localsKey).(*Claims)

	return claims, ok && claims != nil
}

func unauthorized(c fiber.Ctx, err error) error {
	detail := "Unauthorized"

	switch {
	case errors.Is(err, ErrMissingToken):
		detail = "missing Authorization header (expected 'Bearer <token>')"
	case errors.Is(err, ErrNotConfigured):
		detail = "authentication not configured"
	case errors.Is(err, ErrInvalidToken):
		detail = "invalid or expired token"
	}

	problem := problems.NewStatusProblem(fiber.StatusUnauthorized).
		WithInstance(c.Path()).
		WithType("unauthorized").
		WithDetail(detail)

	return c.Status(fiber.StatusUnauthorized).JSON(problem)
}
