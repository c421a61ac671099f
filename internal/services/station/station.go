// Package station содержит бизнес-логику зарядных станций: проверку владельца
// при изменении и кэширование карточек станций.
package station

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/storage"
)

// ErrNotOwner вызывающий пользователь не владеет станцией.
var ErrNotOwner = errors.New("not the owner of this station")

// Repository определяет методы для работы со станциями в хранилище.
type Repository interface {
	CreateStation(ctx context.Context, st models.Station) (string, error)
	GetStation(ctx context.Context, id string) (*models.Station, error)
	ListStations(ctx context.Context) ([]*models.Station, error)
	ListStationsByOwner(ctx context.Context, uid string) ([]*models.Station, error)
	UpdateStation(ctx context.Context, id string, patch models.StationPatch) (int, error)
	DeleteStation(ctx context.Context, id string) (int, error)
}

// Cache описывает методы для кэширования карточек станций.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Settings параметры сервиса.
type Settings struct {
	CacheTTL time.Duration
	// AllowForeignDelete отключает проверку владельца при удалении.
	AllowForeignDelete bool
}

// Service реализует операции над станциями.
type Service struct {
	repo     Repository
	cache    Cache
	settings Settings
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, settings Settings, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		settings: settings,
		log:      log,
	}
}

func cacheKey(id string) string {
	return "station:" + id
}

// generationKey хранит метку последней записи станции. Read сверяет её
// до загрузки и после записи в кеш.
func generationKey(id string) string {
	return "station:" + id + ":gen"
}

// Create сохраняет новую станцию владельца uid и возвращает её id.
func (s *Service) Create(ctx context.Context, uid string, req models.CreateStationRequest) (string, error) {
	const op = "station.Create"

	st := models.Station{
		Name:     req.Name,
		Services: req.Services,
		UserID:   uid,
	}
	if req.Price != nil {
		st.Price = float64(*req.Price)
	}
	if req.Type != nil {
		st.Type = *req.Type
	}
	if req.Coordinates != nil {
		st.Coordinates = models.NewGeoPoint(*req.Coordinates)
	}
	if st.Services == nil {
		st.Services = []string{}
	}

	id, err := s.repo.CreateStation(ctx, st)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	st.ID = id
	s.log.Info("created new station", sl.StationID(id), sl.UID(uid))

	s.store(ctx, &st)
	return id, nil
}

// ListAll возвращает все станции.
func (s *Service) ListAll(ctx context.Context) ([]*models.Station, error) {
	const op = "station.ListAll"

	list, err := s.repo.ListStations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// ListOwned возвращает станции владельца uid.
func (s *Service) ListOwned(ctx context.Context, uid string) ([]*models.Station, error) {
	const op = "station.ListOwned"

	list, err := s.repo.ListStationsByOwner(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Read возвращает станцию по id, используя кеш или репозиторий.
// Если станции нет, возвращает nil без ошибки.
func (s *Service) Read(ctx context.Context, id string) (*models.Station, error) {
	const op = "station.Read"

	var cached *models.Station
	found, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", sl.StationID(id), sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	gen, genOK := s.generation(ctx, id)
	st, err := s.repo.GetStation(ctx, id)
	if errors.Is(err, storage.ErrStationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !genOK {
		return st, nil
	}

	s.store(ctx, st)
	// Запись между загрузкой и s.store меняет метку: такую копию убираем.
	if cur, ok := s.generation(ctx, id); !ok || cur != gen {
		s.invalidate(ctx, id)
	}
	return st, nil
}

// Update применяет частичное обновление к станции id. Изменять станцию
// может только её владелец.
func (s *Service) Update(ctx context.Context, uid string, req models.UpdateStationRequest) error {
	const op = "station.Update"

	existing, err := s.repo.GetStation(ctx, req.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if existing.UserID != uid {
		s.log.Warn("update by non-owner rejected", sl.StationID(req.ID), sl.UID(uid))
		return fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	n, err := s.repo.UpdateStation(ctx, req.ID, buildPatch(uid, req))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrStationNotFound)
	}
	s.log.Info("station updated", sl.StationID(req.ID), sl.UID(uid))

	s.changed(ctx, req.ID)
	return nil
}

func buildPatch(uid string, req models.UpdateStationRequest) models.StationPatch {
	patch := models.StationPatch{
		Name:     req.Name,
		Services: req.Services,
		Type:     req.Type,
		UserID:   uid,
	}
	if req.Price != nil {
		price := float64(*req.Price)
		patch.Price = &price
	}
	if req.Coordinates != nil {
		p := models.NewGeoPoint(*req.Coordinates)
		patch.Coordinates = &p
	}
	return patch
}

// Remove удаляет станцию id. Отсутствие станции ошибкой не считается.
// Если не задан AllowForeignDelete, удалить станцию может только владелец.
func (s *Service) Remove(ctx context.Context, uid, id string) error {
	const op = "station.Remove"

	if !s.settings.AllowForeignDelete {
		existing, err := s.repo.GetStation(ctx, id)
		if errors.Is(err, storage.ErrStationNotFound) {
			s.invalidate(ctx, id)
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if existing.UserID != uid {
			s.log.Warn("delete by non-owner rejected", sl.StationID(id), sl.UID(uid))
			return fmt.Errorf("%s: %w", op, ErrNotOwner)
		}
	}

	n, err := s.repo.DeleteStation(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("station deleted", sl.StationID(id), sl.UID(uid), slog.Int("count", n))

	s.changed(ctx, id)
	return nil
}

func (s *Service) store(ctx context.Context, st *models.Station) {
	if err := s.cache.Set(ctx, cacheKey(st.ID), st, s.settings.CacheTTL); err != nil {
		s.log.Warn("failed to add to cache", sl.StationID(st.ID), sl.Err(err))
	}
}

func (s *Service) generation(ctx context.Context, id string) (string, bool) {
	var gen string
	if _, err := s.cache.Get(ctx, generationKey(id), &gen); err != nil {
		s.log.Warn("failed to read station generation", sl.StationID(id), sl.Err(err))
		return "", false
	}
	return gen, true
}

// changed отмечает запись станции: обновляет метку и сбрасывает карточку.
func (s *Service) changed(ctx context.Context, id string) {
	if err := s.cache.Set(ctx, generationKey(id), uuid.NewString(), s.settings.CacheTTL); err != nil {
		s.log.Warn("failed to bump station generation", sl.StationID(id), sl.Err(err))
	}
	s.invalidate(ctx, id)
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", sl.StationID(id), sl.Err(err))
	}
}
