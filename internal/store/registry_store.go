package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

// RegistryStore reads settlement records from the issuance registry's own
// trading platform.
type RegistryStore struct {
	db *DB
}

// NewRegistryStore creates a registry store.
func NewRegistryStore(db *DB) *RegistryStore {
	return &RegistryStore{db: db}
}

// Trades returns every registry settlement record for the given projects.
func (s *RegistryStore) Trades(ctx context.Context, projectIDs []int) ([]model.RegistryTrade, error) {
	const query = `
		SELECT project_id,
		       COALESCE(production_year, 0), COALESCE(production_month, 0),
		       COALESCE(quantity, ''), COALESCE(transaction_time::text, '')
		FROM registry_transactions
		WHERE project_id = ANY($1)`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query registry trades: %w", err)
	}
	defer rows.Close()

	var out []model.RegistryTrade
	for rows.Next() {
		var r model.RegistryTrade
		if err := rows.Scan(&r.ProjectID, &r.ProductionYear, &r.ProductionMonth, &r.Quantity, &r.TradeTime); err != nil {
			return nil, fmt.Errorf("failed to scan registry trade: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registry trades: %w", err)
	}
	return out, nil
}
