package sync

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mslanden/marketpress/pkg/models/store"
	"github.com/mslanden/marketpress/pkg/store/duckdb"
)

// Store persists per-region ingestion cursors. CreateSync is idempotent: an
// already tracked region keeps its cursor.
type Store interface {
	CreateSync(ctx context.Context, region string, from store.RegionSync) (*store.RegionSync, error)
	ListSyncs(ctx context.Context) ([]*store.RegionSync, error)
	UpdateSync(ctx context.Context, region string, month, year int) error
}

type syncStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &syncStore{db: db}, nil
}

func (s *syncStore) CreateSync(ctx context.Context, region string, from store.RegionSync) (*store.RegionSync, error) {
	existing, err := s.getSync(ctx, region)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	record := store.RegionSync{
		Region:    region,
		LastMonth: from.LastMonth,
		LastYear:  from.LastYear,
		UpdatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO region_sync (region, last_month, last_year, updated_at)
		VALUES (?, ?, ?, ?)`,
		record.Region, record.LastMonth, record.LastYear, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync for %s: %w", region, err)
	}
	return &record, nil
}

func (s *syncStore) ListSyncs(ctx context.Context) ([]*store.RegionSync, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT region, last_month, last_year, updated_at
		FROM region_sync
		ORDER BY region`)
	if err != nil {
		return nil, fmt.Errorf("failed to query syncs: %w", err)
	}
	defer rows.Close()

	var syncs []*store.RegionSync
	for rows.Next() {
		var rec store.RegionSync
		if err := rows.Scan(&rec.Region, &rec.LastMonth, &rec.LastYear, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sync row: %w", err)
		}
		syncs = append(syncs, &rec)
	}
	return syncs, rows.Err()
}

// UpdateSync advances the cursor. It joins the ingestion batch transaction
// when one is on the context.
func (s *syncStore) UpdateSync(ctx context.Context, region string, month, year int) error {
	query := `
		UPDATE region_sync
		SET last_month = ?, last_year = ?, updated_at = ?
		WHERE region = ?`

	tx := duckdb.GetTransaction(ctx)
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, month, year, time.Now().UTC(), region)
	} else {
		_, err = s.db.ExecContext(ctx, query, month, year, time.Now().UTC(), region)
	}
	if err != nil {
		return fmt.Errorf("failed to update sync for %s: %w", region, err)
	}
	return nil
}

func (s *syncStore) getSync(ctx context.Context, region string) (*store.RegionSync, error) {
	var rec store.RegionSync
	err := s.db.QueryRowContext(ctx, `
		SELECT region, last_month, last_year, updated_at
		FROM region_sync
		WHERE region = ?`, region).
		Scan(&rec.Region, &rec.LastMonth, &rec.LastYear, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync for %s: %w", region, err)
	}
	return &rec, nil
}
