package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

// FactStore reads raw trade rows for one venue, driven entirely by the
// venue's descriptor. All venue fact tables are queried through this single
// implementation; the semantic differences (period format, price vs amount,
// settled status) are resolved later by the summarizer.
type FactStore struct {
	db    *DB
	query string
}

// NewFactStore builds the select statement for one venue table up front.
func NewFactStore(db *DB, desc venue.Descriptor) *FactStore {
	optional := func(col string) string {
		if col == "" {
			return "''"
		}
		return fmt.Sprintf("COALESCE(%s::text, '')", col)
	}
	query := fmt.Sprintf(`
		SELECT project_id, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE project_id = ANY($1)`,
		optional(desc.PeriodColumn),
		optional(desc.TimeColumn),
		optional(desc.QtyColumn),
		optional(desc.AmountColumn),
		optional(desc.PriceColumn),
		optional(desc.StatusColumn),
		desc.Table,
	)
	return &FactStore{db: db, query: query}
}

// Facts returns every raw row for the given projects. Filtering and
// normalization are the summarizer's job.
func (s *FactStore) Facts(ctx context.Context, projectIDs []int) ([]model.FactRow, error) {
	rows, err := s.db.QueryContext(ctx, s.query, pq.Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query venue facts: %w", err)
	}
	defer rows.Close()

	var out []model.FactRow
	for rows.Next() {
		var r model.FactRow
		if err := rows.Scan(&r.ProjectID, &r.Period, &r.TradeTime, &r.Quantity, &r.Amount, &r.Price, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan venue fact: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate venue facts: %w", err)
	}
	return out, nil
}
