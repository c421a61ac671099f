package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/station-directory/internal/models"
)

func validProfile() models.ProfileRequest {
	return models.ProfileRequest{
		Username:  "driver42",
		FirstName: "Ana-Maria",
		LastName:  "O'Neil",
		Phone:     "0740123456",
		Country:   "Romania",
	}
}

func TestValidator_ProfileStatus(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		mutate     func(p *models.ProfileRequest)
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "username с символами",
			mutate:     func(p *models.ProfileRequest) { p.Username = "driver_42" },
			wantStatus: models.ProfileStatusInvalidUsername,
			wantMsg:    "Username can only contain letters and numbers",
		},
		{
			name:       "пустой username",
			mutate:     func(p *models.ProfileRequest) { p.Username = "" },
			wantStatus: models.ProfileStatusInvalidUsername,
			wantMsg:    "Username can only contain letters and numbers",
		},
		{
			name:       "телефон с буквами",
			mutate:     func(p *models.ProfileRequest) { p.Phone = "07401a" },
			wantStatus: models.ProfileStatusInvalidUsername,
			wantMsg:    "Phone number can only contain numbers",
		},
		{
			name:       "короткое имя",
			mutate:     func(p *models.ProfileRequest) { p.FirstName = "A" },
			wantStatus: models.ProfileStatusInvalidFirst,
			wantMsg:    "First name can only contain letters",
		},
		{
			name:       "фамилия с цифрами",
			mutate:     func(p *models.ProfileRequest) { p.LastName = "Smith2" },
			wantStatus: models.ProfileStatusInvalidLast,
			wantMsg:    "Last name can only contain letters",
		},
		{
			name: "username проверяется раньше имени",
			mutate: func(p *models.ProfileRequest) {
				p.Username = "bad name"
				p.FirstName = "1"
			},
			wantStatus: models.ProfileStatusInvalidUsername,
			wantMsg:    "Username can only contain letters and numbers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)

			err := v.Struct(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			status, msg := ProfileStatus(err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestValidator_ValidProfile(t *testing.T) {
	assert.NoError(t, New().Struct(validProfile()))
}

func decodeCreate(t *testing.T, raw string) models.CreateStationRequest {
	t.Helper()
	var req models.CreateStationRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	return req
}

func TestValidator_CreateStation(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name: "корректная станция",
			raw:  `{"name":"Mall","price":1.17,"services":["coffee"],"type":22,"coordinates":{"latitude":47.17,"longitude":27.58}}`,
		},
		{
			name: "цена строкой",
			raw:  `{"name":"Mall","price":"1.17","services":[],"type":"43","coordinates":{"latitude":47.17,"longitude":27.58}}`,
		},
		{
			name:    "нет имени",
			raw:     `{"price":1,"services":[],"type":22,"coordinates":{"latitude":1,"longitude":1}}`,
			wantErr: "field name is a required field",
		},
		{
			name:    "неизвестный тип",
			raw:     `{"name":"Mall","price":1,"services":[],"type":11,"coordinates":{"latitude":1,"longitude":1}}`,
			wantErr: "field type must be one of 22, 43, 55",
		},
		{
			name:    "отрицательная цена",
			raw:     `{"name":"Mall","price":-1,"services":[],"type":22,"coordinates":{"latitude":1,"longitude":1}}`,
			wantErr: "field price must be greater than or equal to 0",
		},
		{
			name:    "нет координат",
			raw:     `{"name":"Mall","price":1,"services":[],"type":55}`,
			wantErr: "field coordinates is a required field",
		},
		{
			name:    "нет долготы",
			raw:     `{"name":"Mall","price":1,"services":[],"type":55,"coordinates":{"latitude":1}}`,
			wantErr: "field longitude is a required field",
		},
		{
			name:    "широта вне диапазона",
			raw:     `{"name":"Mall","price":1,"services":[],"type":55,"coordinates":{"latitude":91,"longitude":1}}`,
			wantErr: "field latitude must be less than or equal to 90",
		},
		{
			name:    "повторяющиеся сервисы",
			raw:     `{"name":"Mall","price":1,"services":["wifi","coffee","wifi"],"type":55,"coordinates":{"latitude":1,"longitude":1}}`,
			wantErr: "field services must contain unique values",
		},
		{
			name:    "нет списка сервисов",
			raw:     `{"name":"Mall","price":1,"type":55,"coordinates":{"latitude":1,"longitude":1}}`,
			wantErr: "field services is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(decodeCreate(t, tt.raw))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidator_UpdateStation(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "только id", raw: `{"id":"st-1"}`},
		{name: "частичное обновление", raw: `{"id":"st-1","price":2.5,"type":43}`},
		{name: "без id", raw: `{"price":2.5}`, wantErr: "field id is a required field"},
		{name: "пустое имя", raw: `{"id":"st-1","name":"  "}`, wantErr: "field name is a required field"},
		{name: "отрицательная цена", raw: `{"id":"st-1","price":-3}`, wantErr: "field price must be greater than or equal to 0"},
		{name: "неверный тип", raw: `{"id":"st-1","type":0}`, wantErr: "field type must be one of 22, 43, 55"},
		{name: "неполные координаты", raw: `{"id":"st-1","coordinates":{"latitude":1}}`, wantErr: "field longitude is a required field"},
		{name: "повторяющиеся сервисы", raw: `{"id":"st-1","services":["wifi","wifi"]}`, wantErr: "field services must contain unique values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req models.UpdateStationRequest
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &req))

			err := v.Struct(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidator_NonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "цена Inf", raw: `{"price":"Inf"}`},
		{name: "цена +Inf", raw: `{"price":"+Inf"}`},
		{name: "цена Infinity", raw: `{"price":"Infinity"}`},
		{name: "цена NaN", raw: `{"price":"NaN"}`},
		{name: "широта -Infinity", raw: `{"coordinates":{"latitude":"-Infinity","longitude":1}}`},
		{name: "тип Inf", raw: `{"type":"Inf"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var create models.CreateStationRequest
			err := json.Unmarshal([]byte(tt.raw), &create)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not a number")

			var update models.UpdateStationRequest
			err = json.Unmarshal([]byte(tt.raw), &update)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not a number")
		})
	}
}

func TestProfileStatus_NonValidationError(t *testing.T) {
	status, msg := ProfileStatus(errors.New("bad json"))
	assert.Equal(t, models.ProfileStatusInvalidUsername, status)
	assert.Equal(t, "bad json", msg)
}
