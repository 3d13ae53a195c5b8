package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskforge/support-service/internal/domain"
)

// SettingsRepository persists the single per-outlet support settings row.
type SettingsRepository interface {
	GetByOutletID(ctx context.Context, outletID int64) (*domain.SupportSettings, error)
	GetByWebURL(ctx context.Context, webURL string) (*domain.SupportSettings, error)
	Upsert(ctx context.Context, settings *domain.SupportSettings) error
	SetAPIKeyHash(ctx context.Context, outletID int64, hash string) error
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository builds a postgres-backed SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func scanSettings(row pgx.Row) (*domain.SupportSettings, error) {
	var s domain.SupportSettings
	if err := row.Scan(&s.ID, &s.OutletID, &s.WebURL, &s.APIKeyHash, &s.Settings); err != nil {
		return nil, err
	}
	return &s, nil
}

const settingsColumns = `id, outlet_id, COALESCE(web_url, ''), COALESCE(api_key_hash, ''), settings`

func (r *settingsRepository) GetByOutletID(ctx context.Context, outletID int64) (*domain.SupportSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM support_settings WHERE outlet_id=$1`
	return scanSettings(r.pool.QueryRow(ctx, query, outletID))
}

// GetByWebURL resolves the outlet behind a storefront origin.
func (r *settingsRepository) GetByWebURL(ctx context.Context, webURL string) (*domain.SupportSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM support_settings WHERE web_url=$1`
	return scanSettings(r.pool.QueryRow(ctx, query, webURL))
}

// Upsert inserts or replaces the outlet's settings row, keyed by outlet_id.
func (r *settingsRepository) Upsert(ctx context.Context, settings *domain.SupportSettings) error {
	query := `
		INSERT INTO support_settings (outlet_id, web_url, settings)
		VALUES ($1, $2, $3)
		ON CONFLICT (outlet_id) DO UPDATE
		SET web_url=EXCLUDED.web_url, settings=EXCLUDED.settings, updated_at=NOW()
		RETURNING id`

	return r.pool.QueryRow(ctx, query, settings.OutletID, settings.WebURL, settings.Settings).Scan(&settings.ID)
}

func (r *settingsRepository) SetAPIKeyHash(ctx context.Context, outletID int64, hash string) error {
	query := `UPDATE support_settings SET api_key_hash=$1, updated_at=NOW() WHERE outlet_id=$2`

	tag, err := r.pool.Exec(ctx, query, hash, outletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
