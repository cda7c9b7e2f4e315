package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MrEthical07/goBasket/tenant"
)

// TenantRepository implements [tenant.Queries] over Postgres. Absence is not
// an error here: the resolver caches it as a negative entry.
type TenantRepository struct {
	db     DBIface
	logger *slog.Logger
}

// NewTenantRepository creates a Postgres-backed tenant query layer.
func NewTenantRepository(db DBIface, logger *slog.Logger) *TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger.With("component", "tenant_repository"),
	}
}

// FindTenantBySlug looks a tenant up by slug, case-insensitively. Returns
// (nil, nil) when no such tenant exists.
func (r *TenantRepository) FindTenantBySlug(ctx context.Context, slug string) (*tenant.Row, error) {
	query := `
		SELECT id, slug
		FROM tenants
		WHERE lower(slug) = lower($1) AND deleted_at IS NULL`

	var row tenant.Row
	err := r.db.QueryRow(ctx, query, slug).Scan(&row.ID, &row.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("tenant slug lookup failed", "error", err)
		return nil, fmt.Errorf("failed to find tenant by slug: %w", err)
	}

	return &row, nil
}

// FindTenantByID looks a tenant up by UUID. Returns (nil, nil) when no such
// tenant exists.
func (r *TenantRepository) FindTenantByID(ctx context.Context, id uuid.UUID) (*tenant.Row, error) {
	query := `
		SELECT id, slug
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL`

	var row tenant.Row
	err := r.db.QueryRow(ctx, query, id).Scan(&row.ID, &row.Slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("tenant id lookup failed", "error", err)
		return nil, fmt.Errorf("failed to find tenant by id: %w", err)
	}

	return &row, nil
}
