// Package storage содержит ошибки слоя хранения, общие для репозиториев
// и сервисов, которые с ними работают.
package storage

import "errors"

var (
	// ErrUsernameTaken username уже принадлежит другому профилю.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrProfileNotFound профиль не найден.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrStationNotFound станция не найдена.
	ErrStationNotFound = errors.New("station not found")
)
