package schema

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"envcompare/core/database"
	"envcompare/core/environment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

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

// mockSource inspects one sqlmock database per environment.
type mockSource struct {
	dbs map[string]*gorm.DB
}

func (s *mockSource) Metadata(ctx context.Context, env, table string) (*database.TableMetadata, error) {
	db, ok := s.dbs[env]
	if !ok {
		return nil, errors.Join(environment.ErrUnknownEnvironment, errors.New(env))
	}
	return database.InspectTable(ctx, db, env, table)
}

func columnRows(rows [][]driver.Value) *sqlmock.Rows {
	r := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, row := range rows {
		r.AddRow(row...)
	}
	return r
}

func setupSource(t *testing.T) (*mockSource, sqlmock.Sqlmock, sqlmock.Sqlmock) {
	devDB, devMock := setupMockDB(t)
	prodDB, prodMock := setupMockDB(t)
	return &mockSource{dbs: map[string]*gorm.DB{"dev": devDB, "prod": prodDB}}, devMock, prodMock
}

func TestService_Compare(t *testing.T) {
	source, devMock, prodMock := setupSource(t)

	devMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `app`.`settings`")).WillReturnRows(columnRows([][]driver.Value{
		{"id", "INT(11)", "NO", "PRI", nil, "auto_increment"},
		{"value", "VARCHAR(255)", "YES", "", nil, ""},
	}))
	prodMock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `app`.`settings`")).WillReturnRows(columnRows([][]driver.Value{
		{"id", "int(11)", "NO", "PRI", nil, "auto_increment"},
		{"value", "text", "YES", "", nil, ""},
	}))

	svc := NewService(source, nil, zap.NewNop())
	report, err := svc.Compare(context.Background(), Request{SourceA: "dev", SourceB: "prod", Schema: "app", Table: "settings"})
	require.NoError(t, err)

	assert.Equal(t, "app.settings", report.Table)
	assert.False(t, report.Matched)
	assert.Equal(t, []string{"value: dev has varchar(255), prod has text"}, report.TypeMismatches)
	assert.NoError(t, devMock.ExpectationsWereMet())
	assert.NoError(t, prodMock.ExpectationsWereMet())
}

func TestService_CompareErrors(t *testing.T) {
	source, devMock, _ := setupSource(t)
	svc := NewService(source, nil, nil)
	ctx := context.Background()

	_, err := svc.Compare(ctx, Request{SourceA: "dev", Table: "settings"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = svc.Compare(ctx, Request{SourceA: "dev", SourceB: "prod"})
	assert.True(t, errors.Is(err, ErrInvalidRequest))

	_, err = svc.Compare(ctx, Request{SourceA: "dev", SourceB: "prod", Table: "settings`; drop"})
	assert.True(t, errors.Is(err, database.ErrInvalidIdentifier))

	devMock.ExpectQuery("SHOW COLUMNS").WillReturnRows(columnRows(nil))
	_, err = svc.Compare(ctx, Request{SourceA: "dev", SourceB: "qa", Table: "settings"})
	assert.True(t, errors.Is(err, environment.ErrUnknownEnvironment))
}

func TestHandleCompare(t *testing.T) {
	source, devMock, prodMock := setupSource(t)
	devMock.ExpectQuery("SHOW COLUMNS").WillReturnRows(columnRows([][]driver.Value{{"id", "int", "NO", "PRI", nil, ""}}))
	prodMock.ExpectQuery("SHOW COLUMNS").WillReturnRows(columnRows([][]driver.Value{{"id", "int", "NO", "PRI", nil, ""}}))

	app := fiber.New()
	NewHandler(NewService(source, nil, nil)).RegisterRoutes(app)

	req := httptest.NewRequest("POST", "/schema/compare", strings.NewReader(`{"source_a": "dev", "source_b": "prod", "table": "settings"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var report map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, true, report["matched"])

	req = httptest.NewRequest("POST", "/schema/compare", strings.NewReader(`{"source_a": "dev"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLoader(t *testing.T) {
	source, _, _ := setupSource(t)
	feature := NewFeature(source, nil, zap.NewNop())

	assert.Equal(t, "schema", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))

	assert.False(t, NewFeature(nil, nil, nil).IsEnabled())
}
