// Package response содержит единый конверт ответа для всех операций
// и функции для его формирования.
package response

// Коды ошибок в конверте.
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeInvalidArgument  = "invalid-argument"
	CodeAlreadyExists    = "already-exists"
	CodePermissionDenied = "permission-denied"
	CodeNotFound         = "not-found"
	CodeInternal         = "internal"
)

// Envelope ответ операции. Result присутствует всегда, для неуспешного
// вызова он равен null. Status и UID заполняет только upsertProfile.
type Envelope struct {
	Result  any    `json:"result"`
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
	Status  *int   `json:"status,omitempty"`
	UID     string `json:"uid,omitempty"`
	Code    string `json:"code,omitempty"`
}

// OK возвращает успешный конверт с результатом.
func OK(result any, msg string) Envelope {
	return Envelope{
		Result:  result,
		Message: msg,
	}
}

// Fail возвращает конверт с ошибкой.
func Fail(code, msg string) Envelope {
	return Envelope{
		Error:   true,
		Message: msg,
		Code:    code,
	}
}

// ProfileStatus конверт upsertProfile с кодом статуса. Для статуса 0
// в ответ попадает uid, для остальных конверт помечается как ошибка.
func ProfileStatus(status int, uid, code, msg string) Envelope {
	env := Envelope{
		Status:  &status,
		Message: msg,
	}
	if status == 0 {
		env.UID = uid
		return env
	}
	env.Error = true
	env.Code = code
	return env
}

// IsOK сообщает, успешен ли вызов.
func (e Envelope) IsOK() bool {
	return !e.Error
}
