package venue

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

// RegistryReader fetches settlement records from the issuance registry's own
// trading platform.
type RegistryReader interface {
	Trades(ctx context.Context, projectIDs []int) ([]model.RegistryTrade, error)
}

// RegistrySource summarizes the registry platform, the sixth source feeding
// the "ledger-platform sold" figure. It reports quantities only; the registry
// publishes no per-trade price.
type RegistrySource struct {
	trades RegistryReader
}

// NewRegistrySource wraps a registry reader.
func NewRegistrySource(trades RegistryReader) *RegistrySource {
	return &RegistrySource{trades: trades}
}

// Summarize groups settled registry quantities by (project, production
// month), filtered by the registry's own transaction-time field.
func (r *RegistrySource) Summarize(ctx context.Context, q Query) (map[Key]decimal.Decimal, error) {
	rows, err := r.trades.Trades(ctx, q.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("registry: fetch trades: %w", err)
	}

	out := make(map[Key]decimal.Decimal)
	for _, row := range rows {
		period, ok := model.PeriodFromYearMonth(row.ProductionYear, row.ProductionMonth)
		if !ok {
			continue
		}
		if !q.Production.Contains(period) {
			continue
		}
		if !q.Transaction.Contains(row.TradeTime) {
			continue
		}
		k := Key{ProjectID: row.ProjectID, Period: period}
		out[k] = out[k].Add(model.DecimalOrZero(row.Quantity))
	}
	return out, nil
}
