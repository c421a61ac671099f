package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/station-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
)

var (
	// ErrRevoked идентификатор пользователя отозван.
	ErrRevoked = errors.New("identity: revoked")
	// ErrUnavailable список отозванных идентификаторов недоступен,
	// проверить токен до конца нельзя.
	ErrUnavailable = errors.New("identity: revocation store unavailable")
)

// TokenParser разбирает токен провайдера идентификации.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.CustomClaims, error)
}

// RevocationStore хранит отозванные идентификаторы.
type RevocationStore interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Provider проверяет токены и отзывает идентификаторы пользователей.
// Отзыв хранится ttl, столько же живёт выданный до отзыва токен.
type Provider struct {
	tokens  TokenParser
	revoked RevocationStore
	ttl     time.Duration
	log     *slog.Logger
}

// NewProvider создает Provider.
func NewProvider(tokens TokenParser, revoked RevocationStore, ttl time.Duration, log *slog.Logger) *Provider {
	return &Provider{
		tokens:  tokens,
		revoked: revoked,
		ttl:     ttl,
		log:     log,
	}
}

func revokedKey(uid string) string {
	return "revoked:" + uid
}

// Verify проверяет токен и возвращает идентификатор пользователя.
func (p *Provider) Verify(ctx context.Context, token string) (string, error) {
	const op = "identity.Verify"

	claims, err := p.tokens.ParseToken(token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	uid := claims.UID()

	var revoked bool
	found, err := p.revoked.Get(ctx, revokedKey(uid), &revoked)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	if found && revoked {
		return "", fmt.Errorf("%s: %w", op, ErrRevoked)
	}
	return uid, nil
}

// Revoke отзывает идентификатор пользователя: все его токены перестают
// проходить проверку.
func (p *Provider) Revoke(ctx context.Context, uid string) error {
	const op = "identity.Revoke"

	if err := p.revoked.Set(ctx, revokedKey(uid), true, p.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.log.Info("identity revoked", sl.UID(uid))
	return nil
}
