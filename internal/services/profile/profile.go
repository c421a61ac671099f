// Package profile содержит бизнес-логику профилей пользователей.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/station-directory/internal/lib/sl"
	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/storage"
)

// Repository определяет методы для работы с профилями в хранилище.
type Repository interface {
	// UpsertProfile создаёт или перезаписывает профиль с проверкой уникальности username.
	UpsertProfile(ctx context.Context, p models.Profile) error
	// GetProfile возвращает профиль по идентификатору пользователя.
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	// DeleteProfile удаляет профиль и возвращает количество удалённых записей.
	DeleteProfile(ctx context.Context, uid string) (int, error)
}

// IdentityRevoker отзывает идентификатор пользователя у провайдера.
type IdentityRevoker interface {
	Revoke(ctx context.Context, uid string) error
}

// Service реализует операции над профилем вызывающего пользователя.
type Service struct {
	repo     Repository
	identity IdentityRevoker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, identity IdentityRevoker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		identity: identity,
		log:      log,
	}
}

// Upsert сохраняет профиль пользователя uid и возвращает код статуса.
// Запрос должен быть уже провалидирован.
func (s *Service) Upsert(ctx context.Context, uid string, req models.ProfileRequest) (int, error) {
	const op = "profile.Upsert"

	p := models.Profile{
		UID:       uid,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Country:   req.Country,
	}

	err := s.repo.UpsertProfile(ctx, p)
	switch {
	case errors.Is(err, storage.ErrUsernameTaken):
		s.log.Info("username already taken", sl.UID(uid), slog.String("username", p.Username))
		return models.ProfileStatusUsernameExists, fmt.Errorf("%s: %w", op, err)
	case err != nil:
		s.log.Error("failed to save profile", sl.UID(uid), sl.Err(err))
		return models.ProfileStatusWriteFailed, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("profile saved", sl.UID(uid))
	return models.ProfileStatusOK, nil
}

// Fetch возвращает профиль пользователя uid. Если профиля нет, возвращает nil без ошибки.
func (s *Service) Fetch(ctx context.Context, uid string) (*models.Profile, error) {
	const op = "profile.Fetch"

	p, err := s.repo.GetProfile(ctx, uid)
	if errors.Is(err, storage.ErrProfileNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// Delete удаляет профиль и отзывает идентификатор пользователя.
// Оба шага выполняются независимо от результата друг друга.
func (s *Service) Delete(ctx context.Context, uid string) error {
	const op = "profile.Delete"

	var errs []error
	if _, err := s.repo.DeleteProfile(ctx, uid); err != nil {
		s.log.Error("failed to delete profile", sl.UID(uid), sl.Err(err))
		errs = append(errs, err)
	}
	if err := s.identity.Revoke(ctx, uid); err != nil {
		s.log.Error("failed to revoke identity", sl.UID(uid), sl.Err(err))
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("profile deleted", sl.UID(uid))
	return nil
}
