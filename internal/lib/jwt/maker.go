// Package jwt реализует выпуск и разбор JWT токенов провайдера идентификации.
//
// Идентификатор пользователя передаётся в стандартном claim sub.
// Maker используется сервером только для проверки токенов, выпуск нужен
// утилите cmd/identity-token и тестам.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с идентификатором uid
	GenerateToken(uid string) (string, error)
	// ParseToken проверяет подпись, срок действия и издателя токена
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа,
// издателя и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	issuer    string        // Издатель, пустая строка отключает проверку.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(secretKey, issuer string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		issuer:    issuer,
		tokenTTL:  ttl,
	}
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
