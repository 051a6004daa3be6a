package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bottling/backend/internal/domain/inventory"
	"github.com/bottling/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens an in-memory sqlite database with every ledger table created
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db.DB))
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

// newMockDB opens a GORM postgres session over sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

func seedSupplier(t *testing.T, db *gorm.DB, name string) *inventory.Supplier {
	t.Helper()
	s, err := inventory.NewSupplier(name)
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Create(context.Background(), s))
	return s
}
