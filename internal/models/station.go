package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// StationType код типа зарядной станции.
type StationType int

// Допустимые типы станций.
const (
	StationType22 StationType = 22
	StationType43 StationType = 43
	StationType55 StationType = 55
)

// Valid сообщает, входит ли код в список допустимых типов.
func (t StationType) Valid() bool {
	switch t {
	case StationType22, StationType43, StationType55:
		return true
	}
	return false
}

// UnmarshalJSON принимает как число, так и строку с целым числом.
func (t *StationType) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return fmt.Errorf("station type must be an integer, got %v", f)
	}
	*t = StationType(int(f))
	return nil
}

// Number число с плавающей точкой, которое при декодировании
// принимает и JSON-число, и строку с числом ("1.17").
type Number float64

// UnmarshalJSON реализует json.Unmarshaler. Бесконечность и NaN
// не принимаются: такие значения нельзя снова закодировать в JSON.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("%q is not a number", s)
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// GeoPoint пара широта/долгота.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewGeoPoint создает GeoPoint из координат запроса.
func NewGeoPoint(c Coordinates) GeoPoint {
	var p GeoPoint
	if c.Latitude != nil {
		p.Latitude = float64(*c.Latitude)
	}
	if c.Longitude != nil {
		p.Longitude = float64(*c.Longitude)
	}
	return p
}

// Station зарядная станция. UserID хранит идентификатор владельца,
// устанавливается при создании и больше не меняется.
type Station struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Services    []string    `json:"services"`
	Type        StationType `json:"type"`
	Coordinates GeoPoint    `json:"coordinates"`
	UserID      string      `json:"userID"`
}

// StationPatch набор полей для частичного обновления станции.
// nil означает, что поле не меняется. UserID проставляется всегда.
type StationPatch struct {
	Name        *string
	Price       *float64
	Services    []string
	Type        *StationType
	Coordinates *GeoPoint
	UserID      string
}

// Coordinates координаты из запроса до преобразования в GeoPoint.
type Coordinates struct {
	Latitude  *Number `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude *Number `json:"longitude" validate:"required,min=-180,max=180"`
}

// CreateStationRequest запрос createStation.
type CreateStationRequest struct {
	Name        string       `json:"name" validate:"required,notblank"`
	Price       *Number      `json:"price" validate:"required,min=0"`
	Services    []string     `json:"services" validate:"required,unique,dive,required"`
	Type        *StationType `json:"type" validate:"required,stationtype"`
	Coordinates *Coordinates `json:"coordinates" validate:"required"`
}

// UpdateStationRequest запрос updateStation. Все поля кроме id опциональны,
// но переданные проверяются так же, как при создании.
type UpdateStationRequest struct {
	ID          string       `json:"id" validate:"required"`
	Name        *string      `json:"name"`
	Price       *Number      `json:"price"`
	Services    []string     `json:"services" validate:"omitempty,unique,dive,required"`
	Type        *StationType `json:"type"`
	Coordinates *Coordinates `json:"coordinates" validate:"omitempty"`
}

// DeleteStationRequest запрос deleteStation.
type DeleteStationRequest struct {
	ID string `json:"id" validate:"required"`
}

// FetchStationRequest запрос fetchStationById.
type FetchStationRequest struct {
	StationID string `json:"stationID" validate:"required"`
}
