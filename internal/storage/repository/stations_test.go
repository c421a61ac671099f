package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/station-directory/internal/models"
	"github.com/magabrotheeeer/station-directory/internal/storage"
)

var stationRowColumns = []string{"id", "name", "price", "services", "type", "latitude", "longitude", "user_id"}

func testStation() models.Station {
	return models.Station{
		Name:        "Mall",
		Price:       1.17,
		Services:    []string{"coffee"},
		Type:        models.StationType22,
		Coordinates: models.GeoPoint{Latitude: 47.17, Longitude: 27.58},
		UserID:      "U1",
	}
}

func TestStorage_CreateStation(t *testing.T) {
	s, mock := newMockStorage(t)
	st := testStation()

	mock.ExpectExec(`INSERT INTO stations`).
		WithArgs(sqlmock.AnyArg(), st.Name, st.Price, []byte(`["coffee"]`), 22,
			st.Coordinates.Latitude, st.Coordinates.Longitude, "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.CreateStation(context.Background(), st)
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateStation_NilServices(t *testing.T) {
	s, mock := newMockStorage(t)
	st := testStation()
	st.Services = nil

	mock.ExpectExec(`INSERT INTO stations`).
		WithArgs(sqlmock.AnyArg(), st.Name, st.Price, []byte(`[]`), 22,
			st.Coordinates.Latitude, st.Coordinates.Longitude, "U1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := s.CreateStation(context.Background(), st)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CreateStation_Error(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectExec(`INSERT INTO stations`).WillReturnError(errors.New("db error"))

	id, err := s.CreateStation(context.Background(), testStation())
	assert.Error(t, err)
	assert.Empty(t, id)
}

func TestStorage_GetStation(t *testing.T) {
	t.Run("станция найдена", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(`SELECT id, name, price, services, type, latitude, longitude, user_id FROM stations WHERE id = \$1`).
			WithArgs("st-1").
			WillReturnRows(sqlmock.NewRows(stationRowColumns).
				AddRow("st-1", "Mall", 1.17, []byte(`["coffee","bathroom"]`), int64(43), 47.17, 27.58, "U1"))

		got, err := s.GetStation(context.Background(), "st-1")
		require.NoError(t, err)
		assert.Equal(t, "st-1", got.ID)
		assert.Equal(t, models.StationType43, got.Type)
		assert.Equal(t, []string{"coffee", "bathroom"}, got.Services)
		assert.Equal(t, models.GeoPoint{Latitude: 47.17, Longitude: 27.58}, got.Coordinates)
		assert.Equal(t, "U1", got.UserID)
	})

	t.Run("станции нет", func(t *testing.T) {
		s, mock := newMockStorage(t)
		mock.ExpectQuery(`FROM stations WHERE id`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

		got, err := s.GetStation(context.Background(), "missing")
		assert.Nil(t, got)
		assert.ErrorIs(t, err, storage.ErrStationNotFound)
	})
}

func TestStorage_ListStations(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`FROM stations ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(stationRowColumns).
			AddRow("a", "A", 1.0, []byte(`[]`), int64(22), 1.0, 2.0, "U1").
			AddRow("b", "B", 2.0, []byte(`["wifi"]`), int64(55), 3.0, 4.0, "U2"))

	got, err := s.ListStations(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "U2", got[1].UserID)
	assert.Equal(t, []string{}, got[0].Services)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListStationsByOwner(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`FROM stations WHERE user_id = \$1`).WithArgs("U2").
		WillReturnRows(sqlmock.NewRows(stationRowColumns))

	got, err := s.ListStationsByOwner(context.Background(), "U2")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListStations_BadServices(t *testing.T) {
	s, mock := newMockStorage(t)
	mock.ExpectQuery(`FROM stations`).
		WillReturnRows(sqlmock.NewRows(stationRowColumns).
			AddRow("a", "A", 1.0, []byte(`not-json`), int64(22), 1.0, 2.0, "U1"))

	_, err := s.ListStations(context.Background())
	assert.Error(t, err)
}

func TestStorage_UpdateStation(t *testing.T) {
	name := "New name"
	price := 2.5
	typ := models.StationType55

	tests := []struct {
		name  string
		patch models.StationPatch
		query string
		args  []any
	}{
		{
			name:  "только владелец",
			patch: models.StationPatch{UserID: "U1"},
			query: `UPDATE stations SET user_id = \$1 WHERE id = \$2`,
			args:  []any{"U1", "st-1"},
		},
		{
			name:  "имя и цена",
			patch: models.StationPatch{Name: &name, Price: &price, UserID: "U1"},
			query: `UPDATE stations SET name = \$1, price = \$2, user_id = \$3 WHERE id = \$4`,
			args:  []any{name, price, "U1", "st-1"},
		},
		{
			name: "все поля",
			patch: models.StationPatch{
				Name:        &name,
				Price:       &price,
				Services:    []string{"wifi"},
				Type:        &typ,
				Coordinates: &models.GeoPoint{Latitude: 1, Longitude: 2},
				UserID:      "U1",
			},
			query: `UPDATE stations SET name = \$1, price = \$2, services = \$3, type = \$4, latitude = \$5, longitude = \$6, user_id = \$7 WHERE id = \$8`,
			args:  []any{name, price, []byte(`["wifi"]`), 55, 1.0, 2.0, "U1", "st-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)

			args := make([]driver.Value, 0, len(tt.args))
			for _, a := range tt.args {
				args = append(args, a)
			}
			mock.ExpectExec(tt.query).WithArgs(args...).
				WillReturnResult(sqlmock.NewResult(0, 1))

			n, err := s.UpdateStation(context.Background(), "st-1", tt.patch)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_DeleteStation(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
	}{
		{name: "станция удалена", affected: 1},
		{name: "станции не было", affected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStorage(t)
			mock.ExpectExec(`DELETE FROM stations WHERE id = \$1`).WithArgs("st-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			n, err := s.DeleteStation(context.Background(), "st-1")
			require.NoError(t, err)
			assert.Equal(t, int(tt.affected), n)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
