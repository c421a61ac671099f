// Package validation проверяет входящие запросы по декларативным правилам,
// заданным тегами validate в структурах из пакета models.
//
// Помимо стандартных тегов go-playground/validator регистрируются:
//   - username   : только латинские буквы и цифры;
//   - personname : буквы, апостроф, дефис и пробел, от 2 до 30 символов;
//   - digits     : только цифры;
//   - notblank   : строка не пустая после обрезки пробелов;
//   - stationtype: один из допустимых кодов models.StationType.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/station-directory/internal/models"
)

var (
	usernameRe   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	personNameRe = regexp.MustCompile(`^[a-zA-Z '-]{2,30}$`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)
)

// ErrValidation базовая ошибка валидации, на неё указывает errors.Is для *Error.
var ErrValidation = errors.New("validation failed")

// Error ошибка валидации запроса с перечнем нарушенных правил.
type Error struct {
	Fields validator.ValidationErrors
	msg    string
}

func (e *Error) Error() string { return e.msg }

// Is позволяет сравнивать ошибку с ErrValidation.
func (e *Error) Is(target error) bool { return target == ErrValidation }

// Validator оборачивает validator.Validate с зарегистрированными правилами домена.
type Validator struct {
	validate *validator.Validate
}

// New создает Validator и регистрирует пользовательские теги.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "username", matchString(usernameRe))
	mustRegister(v, "personname", matchString(personNameRe))
	mustRegister(v, "digits", matchString(digitsRe))
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "stationtype", func(fl validator.FieldLevel) bool {
		return models.StationType(fl.Field().Int()).Valid()
	})

	v.RegisterStructValidation(updateStationLevel, models.UpdateStationRequest{})

	return &Validator{validate: v}
}

// Struct проверяет структуру запроса. Возвращает *Error при нарушении правил.
func (v *Validator) Struct(req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validation.Struct: %w", err)
	}
	return &Error{Fields: errs, msg: Message(errs)}
}

// updateStationLevel проверяет необязательные поля обновления станции,
// если они переданы.
func updateStationLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(models.UpdateStationRequest)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		sl.ReportError(req.Name, "name", "Name", "notblank", "")
	}
	if req.Price != nil && *req.Price < 0 {
		sl.ReportError(req.Price, "price", "Price", "min", "0")
	}
	if req.Type != nil && !req.Type.Valid() {
		sl.ReportError(req.Type, "type", "Type", "stationtype", "")
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %s: %v", tag, err))
	}
}

// Message формирует человекочитаемый текст по ошибкам валидации,
// нарушения объединяются через запятую.
func Message(errs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.Tag() {
		case "required", "notblank":
			msgs = append(msgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "username":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only letters and numbers", err.Field()))
		case "personname":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only letters", err.Field()))
		case "digits":
			msgs = append(msgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "stationtype":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of 22, 43, 55", err.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s must be less than or equal to %s", err.Field(), err.Param()))
		case "unique":
			msgs = append(msgs, fmt.Sprintf("field %s must contain unique values", err.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}

// profileRules порядок проверки полей профиля и соответствующие коды статуса.
var profileRules = []struct {
	field   string
	status  int
	message string
}{
	{"Username", models.ProfileStatusInvalidUsername, "Username can only contain letters and numbers"},
	{"Phone", models.ProfileStatusInvalidUsername, "Phone number can only contain numbers"},
	{"FirstName", models.ProfileStatusInvalidFirst, "First name can only contain letters"},
	{"LastName", models.ProfileStatusInvalidLast, "Last name can only contain letters"},
}

// ProfileStatus переводит ошибку валидации профиля в код статуса upsertProfile.
// Для ошибок, не относящихся к профилю, возвращает ProfileStatusInvalidUsername.
func ProfileStatus(err error) (int, string) {
	var verr *Error
	if !errors.As(err, &verr) {
		return models.ProfileStatusInvalidUsername, err.Error()
	}
	for _, rule := range profileRules {
		for _, fe := range verr.Fields {
			if fe.StructField() == rule.field {
				return rule.status, rule.message
			}
		}
	}
	return models.ProfileStatusInvalidUsername, verr.Error()
}
