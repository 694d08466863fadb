package venue

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

// Key addresses one summary group: a project and a canonical production month.
type Key struct {
	ProjectID int
	Period    model.Period
}

// Totals is the summed quantity and amount for one group.
type Totals struct {
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// Query bounds a summarization. Production is always set (use the sentinel
// extremes for "everything"); Transaction is optional.
type Query struct {
	ProjectIDs  []int
	Production  model.PeriodWindow
	Transaction model.TimeWindow
}

// FactReader fetches the raw fact rows for one venue table. Implemented by
// the postgres store; tests substitute an in-memory slice.
type FactReader interface {
	Facts(ctx context.Context, projectIDs []int) ([]model.FactRow, error)
}

// Source is one trading venue as seen by the aggregation engine.
//
// Summarize groups settled rows by (project, production month) and returns
// one summed (quantity, amount) pair per group. Joining these summaries to
// the certificate ledger, instead of joining raw rows, is what keeps a
// ledger row from being multiplied by its matching trade count.
//
// SummarizeByTradeMonth groups the same rows by the month the trade settled
// in, for the transaction-time rollup.
type Source interface {
	Key() string
	Name() string
	Summarize(ctx context.Context, q Query) (map[Key]Totals, error)
	SummarizeByTradeMonth(ctx context.Context, q Query) (map[string]Totals, error)
}

type source struct {
	desc  Descriptor
	facts FactReader
}

// New builds a Source from a venue descriptor and its fact reader.
func New(desc Descriptor, facts FactReader) Source {
	return &source{desc: desc, facts: facts}
}

func (s *source) Key() string  { return s.desc.Key }
func (s *source) Name() string { return s.desc.Name }

func (s *source) Summarize(ctx context.Context, q Query) (map[Key]Totals, error) {
	rows, err := s.facts.Facts(ctx, q.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch facts: %w", s.desc.Key, err)
	}

	out := make(map[Key]Totals)
	for _, row := range rows {
		if !s.settled(row) {
			continue
		}
		period, ok := model.NormalizePeriod(row.Period, s.desc.PeriodFormat)
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
		t := out[k]
		qty, amt := s.measure(row)
		t.Quantity = t.Quantity.Add(qty)
		t.Amount = t.Amount.Add(amt)
		out[k] = t
	}
	return out, nil
}

func (s *source) SummarizeByTradeMonth(ctx context.Context, q Query) (map[string]Totals, error) {
	rows, err := s.facts.Facts(ctx, q.ProjectIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch facts: %w", s.desc.Key, err)
	}

	unboundedProduction := q.Production == model.UnboundedPeriodWindow()
	out := make(map[string]Totals)
	for _, row := range rows {
		if !s.settled(row) {
			continue
		}
		month := model.MonthOf(row.TradeTime)
		if month == "" {
			continue
		}
		if !q.Transaction.Contains(row.TradeTime) {
			continue
		}
		// A row whose production month cannot be read is only countable
		// when the caller did not constrain production at all.
		if period, ok := model.NormalizePeriod(row.Period, s.desc.PeriodFormat); ok {
			if !q.Production.Contains(period) {
				continue
			}
		} else if !unboundedProduction {
			continue
		}
		t := out[month]
		qty, amt := s.measure(row)
		t.Quantity = t.Quantity.Add(qty)
		t.Amount = t.Amount.Add(amt)
		out[month] = t
	}
	return out, nil
}

// settled applies the venue's status filter. Rows in any other state
// (pending, cancelled, rejected) are excluded entirely.
func (s *source) settled(row model.FactRow) bool {
	if s.desc.StatusColumn == "" {
		return true
	}
	return row.Status == s.desc.SettledStatus
}

// measure extracts the row's quantity and amount. A field that fails numeric
// parsing contributes zero instead of failing the whole summarization; for
// price venues the amount needs both quantity and price to parse.
func (s *source) measure(row model.FactRow) (qty, amt decimal.Decimal) {
	qty = model.DecimalOrZero(row.Quantity)
	if s.desc.PriceColumn != "" {
		price, ok := model.ParseDecimal(row.Price)
		if ok {
			amt = qty.Mul(price)
		}
		return qty, amt
	}
	amt = model.DecimalOrZero(row.Amount)
	return qty, amt
}
