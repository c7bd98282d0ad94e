package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// setupMockDB opens a gorm MySQL handle backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// setupMemoryDB opens an in-memory sqlite database.
func setupMemoryDB(t *testing.T) *gorm.DB {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         DriverMySQL,
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "config",
			TimeoutSeconds: 2,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle"})
		require.Error(t, err)
		assert.Nil(t, db)
		assert.Contains(t, err.Error(), `unsupported database driver "oracle"`)
	})

	t.Run("SQLite In Memory", func(t *testing.T) {
		db := setupMemoryDB(t)
		assert.Equal(t, DriverSQLite, db.Dialector.Name())
		assert.NoError(t, Ping(context.Background(), db))
	})
}

func TestMySQLDSN(t *testing.T) {
	dsn := mysqlDSN(Config{
		Host:     "db.internal",
		Port:     3307,
		User:     "reader",
		Password: "p@ss:word",
		Name:     "settings",
	}, 5)

	assert.Equal(t,
		"reader:p%40ss%3Aword@tcp(db.internal:3307)/settings?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s&readTimeout=5s&writeTimeout=5s",
		dsn)
}

func TestClose(t *testing.T) {
	assert.NoError(t, Close(nil))

	db := setupMemoryDB(t)
	require.NoError(t, Close(db))
	assert.Error(t, Ping(context.Background(), db), "closed handle must fail its ping")
}
