// Package identity отвечает за идентификатор вызывающего пользователя:
// кладёт его в контекст запроса, достаёт оттуда и проверяет наличие.
// Решений о правах доступа пакет не принимает.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthenticated вызов без идентификатора пользователя.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

type ctxKey struct{}

// WithCaller возвращает контекст с идентификатором вызывающего пользователя.
func WithCaller(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, uid)
}

// CallerFromContext достаёт идентификатор пользователя из контекста.
func CallerFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(ctxKey{}).(string)
	return uid, ok && uid != ""
}

// Require возвращает идентификатор пользователя или ErrUnauthenticated.
func Require(ctx context.Context) (string, error) {
	uid, ok := CallerFromContext(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return uid, nil
}
