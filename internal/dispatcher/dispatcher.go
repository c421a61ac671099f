// Package dispatcher маршрутизирует именованные операции: проверяет
// идентификатор вызывающего, декодирует и валидирует данные, вызывает
// сервис и заворачивает результат в единый конверт ответа.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/station-directory/internal/http/response"
	"github.com/magabrotheeeer/station-directory/internal/identity"
	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
	"github.com/magabrotheeeer/station-directory/internal/models"
)

// ErrUnknownOperation операция с таким именем не зарегистрирована.
var ErrUnknownOperation = errors.New("unknown operation")

const msgUnauthenticated = "You must be authenticated to use this function"

// ProfileService операции над профилем вызывающего пользователя.
type ProfileService interface {
	Upsert(ctx context.Context, uid string, req models.ProfileRequest) (int, error)
	Fetch(ctx context.Context, uid string) (*models.Profile, error)
	Delete(ctx context.Context, uid string) error
}

// StationService операции над станциями.
type StationService interface {
	Create(ctx context.Context, uid string, req models.CreateStationRequest) (string, error)
	ListAll(ctx context.Context) ([]*models.Station, error)
	ListOwned(ctx context.Context, uid string) ([]*models.Station, error)
	Read(ctx context.Context, id string) (*models.Station, error)
	Update(ctx context.Context, uid string, req models.UpdateStationRequest) error
	Remove(ctx context.Context, uid, id string) error
}

// Validator проверяет структуру запроса.
type Validator interface {
	Struct(req any) error
}

// Observer учитывает вызовы операций.
type Observer interface {
	Observe(operation, code string, elapsed time.Duration)
}

type call func(ctx context.Context, uid string, payload json.RawMessage) response.Envelope

type operation struct {
	// public операции доступны без идентификатора пользователя.
	public bool
	call   call
}

// Dispatcher реестр операций.
type Dispatcher struct {
	profiles   ProfileService
	stations   StationService
	validate   Validator
	metrics    Observer
	log        *slog.Logger
	operations map[string]operation
}

// New создает Dispatcher и регистрирует все операции.
func New(profiles ProfileService, stations StationService, validate Validator, metrics Observer, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		profiles: profiles,
		stations: stations,
		validate: validate,
		metrics:  metrics,
		log:      log,
	}
	d.operations = map[string]operation{
		"upsertProfile":     {call: d.upsertProfile},
		"fetchProfile":      {call: d.fetchProfile},
		"deleteProfile":     {call: d.deleteProfile},
		"listAllStations":   {public: true, call: d.listAllStations},
		"listOwnedStations": {call: d.listOwnedStations},
		"createStation":     {call: d.createStation},
		"updateStation":     {call: d.updateStation},
		"deleteStation":     {call: d.deleteStation},
		"fetchStationById":  {public: true, call: d.fetchStationByID},
		"helloWorld":        {public: true, call: d.helloWorld},
	}
	return d
}

// Operations возвращает отсортированный список имён операций.
func (d *Dispatcher) Operations() []string {
	names := make([]string, 0, len(d.operations))
	for name := range d.operations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call выполняет операцию name с данными payload от имени пользователя
// из контекста. Ошибку возвращает только для незарегистрированной операции,
// все остальные исходы описываются конвертом.
func (d *Dispatcher) Call(ctx context.Context, name string, payload json.RawMessage) (response.Envelope, error) {
	const op = "dispatcher.Call"

	log := d.log.With(
		slog.String("op", op),
		slog.String("operation", name),
		slog.String("request_id", middleware.GetReqID(ctx)),
	)

	o, ok := d.operations[name]
	if !ok {
		log.Warn("unknown operation")
		return response.Envelope{}, fmt.Errorf("%s: %w: %s", op, ErrUnknownOperation, name)
	}

	start := time.Now()
	var env response.Envelope
	uid, err := identity.Require(ctx)
	switch {
	case err != nil && !o.public:
		log.Info("unauthenticated call rejected")
		env = response.Fail(response.CodeUnauthenticated, msgUnauthenticated)
	default:
		log.Debug("call", sl.UID(uid), slog.String("payload", string(payload)))
		env = o.call(ctx, uid, payload)
	}

	if env.Error {
		log.Info("call failed", sl.UID(uid), slog.String("code", env.Code), slog.String("message", env.Message))
	}
	if d.metrics != nil {
		d.metrics.Observe(name, env.Code, time.Since(start))
	}
	return env, nil
}

// decode разбирает payload в dst. Пустые данные и null оставляют dst
// нулевым, неизвестные поля считаются ошибкой.
func decode(payload json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request data: %w", err)
	}
	return nil
}

// bind декодирует и валидирует запрос.
func (d *Dispatcher) bind(payload json.RawMessage, dst any) error {
	if err := decode(payload, dst); err != nil {
		return err
	}
	return d.validate.Struct(dst)
}
