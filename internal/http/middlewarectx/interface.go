package middlewarectx

import "context"

// Verifier проверяет токен провайдера идентификации и возвращает
// идентификатор пользователя.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
