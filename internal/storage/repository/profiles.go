package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/storage"
)

// UpsertProfile создаёт или перезаписывает профиль p.UID.
//
// Проверка уникальности username и запись выполняются в одной транзакции:
// строка с тем же username блокируется до коммита, а гонку двух новых
// username закрывает уникальный индекс profiles_username_key.
// Если username принадлежит другому профилю, возвращает storage.ErrUsernameTaken.
func (s *Storage) UpsertProfile(ctx context.Context, p models.Profile) error {
	const op = "storage.UpsertProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT uid FROM profiles WHERE username = $1 FOR UPDATE`, p.Username).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("%s: %w", op, err)
	case owner != p.UID:
		return fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
	}

	query := `INSERT INTO profiles (uid, username, first_name, last_name, phone, country)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (uid) DO UPDATE
			  SET username = EXCLUDED.username, first_name = EXCLUDED.first_name,
			      last_name = EXCLUDED.last_name, phone = EXCLUDED.phone,
			      country = EXCLUDED.country`
	if _, err = tx.ExecContext(ctx, query,
		p.UID, p.Username, p.FirstName, p.LastName, p.Phone, p.Country); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile возвращает профиль по uid или storage.ErrProfileNotFound.
func (s *Storage) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, first_name, last_name, phone, country
			  FROM profiles WHERE uid = $1`
	var p models.Profile
	err := s.DB.QueryRowContext(ctx, query, uid).
		Scan(&p.UID, &p.Username, &p.FirstName, &p.LastName, &p.Phone, &p.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// DeleteProfile удаляет профиль и возвращает количество удалённых строк.
func (s *Storage) DeleteProfile(ctx context.Context, uid string) (int, error) {
	const op = "storage.DeleteProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM profiles WHERE uid = $1`, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
