package postgres

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTenantRepository(t *testing.T) (*TenantRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return NewTenantRepository(mockDB, slog.Default()), mockDB
}

func TestTenantRepository_FindTenantBySlug(t *testing.T) {
	repo, mockDB := createTestTenantRepository(t)

	tenantID := uuid.New()

	mockDB.ExpectQuery("SELECT id, slug").
		WithArgs("acme").
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug"}).AddRow(tenantID, "acme"))

	row, err := repo.FindTenantBySlug(context.Background(), "acme")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, tenantID, row.ID)
	assert.Equal(t, "acme", row.Slug)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTenantRepository_FindTenantBySlug_AbsentIsNotAnError(t *testing.T) {
	repo, mockDB := createTestTenantRepository(t)

	mockDB.ExpectQuery("SELECT id, slug").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	row, err := repo.FindTenantBySlug(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, row)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTenantRepository_FindTenantBySlug_DatabaseError(t *testing.T) {
	repo, mockDB := createTestTenantRepository(t)

	mockDB.ExpectQuery("SELECT id, slug").
		WithArgs("acme").
		WillReturnError(errors.New("connection refused"))

	row, err := repo.FindTenantBySlug(context.Background(), "acme")
	require.Error(t, err)
	assert.Nil(t, row)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTenantRepository_FindTenantByID(t *testing.T) {
	repo, mockDB := createTestTenantRepository(t)

	tenantID := uuid.New()

	mockDB.ExpectQuery("SELECT id, slug").
		WithArgs(tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug"}).AddRow(tenantID, "acme"))

	row, err := repo.FindTenantByID(context.Background(), tenantID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, tenantID, row.ID)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestTenantRepository_FindTenantByID_Absent(t *testing.T) {
	repo, mockDB := createTestTenantRepository(t)

	unknown := uuid.New()

	mockDB.ExpectQuery("SELECT id, slug").
		WithArgs(unknown).
		WillReturnError(pgx.ErrNoRows)

	row, err := repo.FindTenantByID(context.Background(), unknown)
	require.NoError(t, err)
	assert.Nil(t, row)

	assert.NoError(t, mockDB.ExpectationsWereMet())
}
