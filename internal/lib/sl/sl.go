// Package sl содержит общие атрибуты для логгера slog, чтобы ключи
// в логах всех пакетов совпадали.
package sl

import "log/slog"

// Err возвращает атрибут "error" с текстом ошибки.
//
//	log.Error("failed to save profile", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// UID атрибут с идентификатором вызывающего пользователя.
func UID(uid string) slog.Attr {
	return slog.String("uid", uid)
}

// StationID атрибут с идентификатором станции.
func StationID(id string) slog.Attr {
	return slog.String("station_id", id)
}
