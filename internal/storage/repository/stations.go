package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/storage"
)

const stationColumns = `id, name, price, services, type, latitude, longitude, user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*models.Station, error) {
	var (
		st       models.Station
		services []byte
	)
	if err := row.Scan(&st.ID, &st.Name, &st.Price, &services, &st.Type,
		&st.Coordinates.Latitude, &st.Coordinates.Longitude, &st.UserID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(services, &st.Services); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	if st.Services == nil {
		st.Services = []string{}
	}
	return &st, nil
}

func encodeServices(services []string) ([]byte, error) {
	if services == nil {
		services = []string{}
	}
	return json.Marshal(services)
}

// CreateStation вставляет новую станцию и возвращает сгенерированный id.
func (s *Storage) CreateStation(ctx context.Context, st models.Station) (string, error) {
	const op = "storage.CreateStation"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	services, err := encodeServices(st.Services)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()
	query := `INSERT INTO stations (` + stationColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = s.DB.ExecContext(ctx, query,
		id, st.Name, st.Price, services, int(st.Type),
		st.Coordinates.Latitude, st.Coordinates.Longitude, st.UserID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetStation возвращает станцию по id или storage.ErrStationNotFound.
func (s *Storage) GetStation(ctx context.Context, id string) (*models.Station, error) {
	const op = "storage.GetStation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`
	st, err := scanStation(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrStationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// ListStations возвращает все станции.
func (s *Storage) ListStations(ctx context.Context) ([]*models.Station, error) {
	const op = "storage.ListStations"
	return s.listStations(ctx, op, `SELECT `+stationColumns+` FROM stations ORDER BY id`)
}

// ListStationsByOwner возвращает станции владельца uid.
func (s *Storage) ListStationsByOwner(ctx context.Context, uid string) ([]*models.Station, error) {
	const op = "storage.ListStationsByOwner"
	return s.listStations(ctx, op,
		`SELECT `+stationColumns+` FROM stations WHERE user_id = $1 ORDER BY id`, uid)
}

func (s *Storage) listStations(ctx context.Context, op, query string, args ...any) ([]*models.Station, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Station, 0)
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, st)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateStation частично обновляет станцию: меняются только заданные поля
// патча, user_id проставляется всегда. Возвращает количество изменённых строк.
func (s *Storage) UpdateStation(ctx context.Context, id string, patch models.StationPatch) (int, error) {
	const op = "storage.UpdateStation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Services != nil {
		services, err := encodeServices(patch.Services)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		set("services", services)
	}
	if patch.Type != nil {
		set("type", int(*patch.Type))
	}
	if patch.Coordinates != nil {
		set("latitude", patch.Coordinates.Latitude)
		set("longitude", patch.Coordinates.Longitude)
	}
	set("user_id", patch.UserID)

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE stations SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteStation удаляет станцию по id и возвращает количество удалённых строк.
// Отсутствие станции ошибкой не считается.
func (s *Storage) DeleteStation(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteStation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
