package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

// LedgerStore reads the certificate ledger, the anchor every rollup joins
// against.
type LedgerStore struct {
	db *DB
}

// NewLedgerStore creates a ledger store.
func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Rows retrieves ledger rows for the given projects whose production period
// falls in the window. Ledger periods are stored canonically, so the window
// bounds compare directly in SQL.
func (s *LedgerStore) Rows(ctx context.Context, projectIDs []int, w model.PeriodWindow) ([]model.LedgerRow, error) {
	const query = `
		SELECT project_id, production_period,
		       COALESCE(issued_quantity, ''), COALESCE(green_quantity, ''),
		       COALESCE(sold_quantity, '')
		FROM certificate_ledger
		WHERE project_id = ANY($1)
		  AND production_period >= $2
		  AND production_period <= $3
		ORDER BY production_period DESC, project_id`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(projectIDs), string(w.Start), string(w.End))
	if err != nil {
		return nil, fmt.Errorf("failed to query certificate ledger: %w", err)
	}
	defer rows.Close()

	var out []model.LedgerRow
	for rows.Next() {
		var r model.LedgerRow
		var period string
		if err := rows.Scan(&r.ProjectID, &period, &r.IssuedQty, &r.GreenQty, &r.SoldQty); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		r.Period = model.Period(period)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger rows: %w", err)
	}
	return out, nil
}
