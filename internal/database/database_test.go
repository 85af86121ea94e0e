package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateCreatesTables(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	for _, table := range []string{
		"users", "refresh_tokens", "oauth_states", "menus",
		"bookings", "complaints", "lost_found_items", "counseling_appointments",
	} {
		var name string
		err := db.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		assert.NoError(t, err, table)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMenuTripleIsUnique(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, Migrate(db))

	insert := func(id string) error {
		now := time.Now().UTC()
		_, err := db.Exec(`
			INSERT INTO users (id, name, email, role, status, created_at, updated_at)
			VALUES ('u1', 'Admin', 'admin@hostel.test', 'admin', 'active', ?, ?)
			ON CONFLICT DO NOTHING`, now, now)
		require.NoError(t, err)
		_, err = db.Exec(`
			INSERT INTO menus (id, day, meal_type, items, week_number, is_active, special_items, created_by, created_at, updated_at)
			VALUES (?, 'monday', 'lunch', '[]', 1, 1, '[]', 'u1', ?, ?)`, id, now, now)
		return err
	}

	require.NoError(t, insert("m1"))
	err := insert("m2")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(errors.New("some other failure")))
}

func TestHealthCheck(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, HealthCheck(context.Background(), db))
}

func TestHealthCheckReportsQueryFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("database is locked"))

	err = HealthCheck(context.Background(), sqlx.NewDb(mockDB, "sqlmock"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}
