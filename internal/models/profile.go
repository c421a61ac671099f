// Package models содержит доменные структуры профиля пользователя и зарядной станции,
// а также типы запросов, которые приходят от клиента до их валидации.
package models

// Profile представляет профиль пользователя. Ключ профиля совпадает
// с идентификатором вызывающего пользователя.
type Profile struct {
	UID       string `json:"uid"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// ProfileRequest используется для приёма данных профиля из запроса upsertProfile.
type ProfileRequest struct {
	Username  string `json:"username" validate:"required,username"`
	FirstName string `json:"firstName" validate:"required,personname"`
	LastName  string `json:"lastName" validate:"required,personname"`
	Phone     string `json:"phone" validate:"required,digits"`
	Country   string `json:"country"`
}

// Коды статуса, которые возвращает upsertProfile.
const (
	ProfileStatusOK              = 0
	ProfileStatusUsernameExists  = 1
	ProfileStatusInvalidUsername = 3 // и для username, и для телефона
	ProfileStatusInvalidFirst    = 4
	ProfileStatusInvalidLast     = 5
	ProfileStatusWriteFailed     = 6
)
