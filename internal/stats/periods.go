package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

// PeriodQuery bounds a period rollup. Projects is the resolved allow-list.
type PeriodQuery struct {
	Projects    []model.Project
	Production  model.PeriodWindow
	Transaction model.TimeWindow
}

// VenueBreakdown is one venue's contribution to a period row. AvgPrice is
// rounded to two decimals.
type VenueBreakdown struct {
	Quantity float64
	Amount   float64
	AvgPrice float64
}

// ProductionPeriodRow aggregates one production month across the ledger, the
// registry platform and all venues.
type ProductionPeriodRow struct {
	Period         string
	IssuedOrdinary float64
	IssuedGreen    float64
	RegistrySold   float64
	Venues         map[string]VenueBreakdown
}

// TransactionPeriodRow aggregates one settlement month across all venues.
type TransactionPeriodRow struct {
	Month  string
	Venues map[string]VenueBreakdown
}

// ProductionPeriodRollup returns one row per distinct ledger production
// month within the window, newest first. This rollup answers "what was
// produced and how much of it sold"; its anchor set is the ledger itself.
func (e *Engine) ProductionPeriodRollup(ctx context.Context, q PeriodQuery) ([]ProductionPeriodRow, error) {
	if len(q.Projects) == 0 {
		return []ProductionPeriodRow{}, nil
	}

	ids, _ := indexProjects(q.Projects)
	vq := venue.Query{ProjectIDs: ids, Production: q.Production, Transaction: q.Transaction}

	ledgerRows, err := e.ledger.Rows(ctx, ids, q.Production)
	if err != nil {
		return nil, fmt.Errorf("production period rollup: %w", err)
	}
	summaries, err := e.summarizeVenues(ctx, vq)
	if err != nil {
		return nil, fmt.Errorf("production period rollup: %w", err)
	}
	registry, err := e.registry.Summarize(ctx, vq)
	if err != nil {
		return nil, fmt.Errorf("production period rollup: %w", err)
	}

	type ledgerTotals struct {
		ordinary decimal.Decimal
		green    decimal.Decimal
	}
	issuedByPeriod := make(map[model.Period]*ledgerTotals)
	var periods []model.Period
	for _, row := range ledgerRows {
		t, ok := issuedByPeriod[row.Period]
		if !ok {
			t = &ledgerTotals{}
			issuedByPeriod[row.Period] = t
			periods = append(periods, row.Period)
		}
		t.ordinary = t.ordinary.Add(model.DecimalOrZero(row.IssuedQty))
		t.green = t.green.Add(model.DecimalOrZero(row.GreenQty))
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] > periods[j] })

	registryByPeriod := make(map[model.Period]decimal.Decimal)
	for k, qty := range registry {
		registryByPeriod[k.Period] = registryByPeriod[k.Period].Add(qty)
	}

	venueByPeriod := make([]map[model.Period]venue.Totals, len(e.venues))
	for i, summary := range summaries {
		byPeriod := make(map[model.Period]venue.Totals)
		for k, t := range summary {
			agg := byPeriod[k.Period]
			agg.Quantity = agg.Quantity.Add(t.Quantity)
			agg.Amount = agg.Amount.Add(t.Amount)
			byPeriod[k.Period] = agg
		}
		venueByPeriod[i] = byPeriod
	}

	rows := make([]ProductionPeriodRow, 0, len(periods))
	for _, period := range periods {
		issued := issuedByPeriod[period]
		row := ProductionPeriodRow{
			Period:         string(period),
			IssuedOrdinary: toFloat(issued.ordinary),
			IssuedGreen:    toFloat(issued.green),
			RegistrySold:   toFloat(registryByPeriod[period]),
			Venues:         make(map[string]VenueBreakdown, len(e.venues)),
		}
		for i, v := range e.venues {
			row.Venues[v.Key()] = breakdown(venueByPeriod[i][period])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TransactionPeriodRollup returns one row per distinct settlement month
// observed across the five venues, newest first. Unlike the production
// rollup it is anchored on observed trade months, not ledger periods: it
// answers "what traded in this month, regardless of when produced". The two
// rollups are deliberately not symmetric.
func (e *Engine) TransactionPeriodRollup(ctx context.Context, q PeriodQuery) ([]TransactionPeriodRow, error) {
	if len(q.Projects) == 0 {
		return []TransactionPeriodRow{}, nil
	}

	ids, _ := indexProjects(q.Projects)
	vq := venue.Query{ProjectIDs: ids, Production: q.Production, Transaction: q.Transaction}

	byMonth := make([]map[string]venue.Totals, len(e.venues))
	monthSet := make(map[string]struct{})
	for i, v := range e.venues {
		summary, err := v.SummarizeByTradeMonth(ctx, vq)
		if err != nil {
			return nil, fmt.Errorf("transaction period rollup: %w", err)
		}
		byMonth[i] = summary
		for month := range summary {
			monthSet[month] = struct{}{}
		}
	}

	months := make([]string, 0, len(monthSet))
	for month := range monthSet {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	rows := make([]TransactionPeriodRow, 0, len(months))
	for _, month := range months {
		row := TransactionPeriodRow{
			Month:  month,
			Venues: make(map[string]VenueBreakdown, len(e.venues)),
		}
		for i, v := range e.venues {
			row.Venues[v.Key()] = breakdown(byMonth[i][month])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func breakdown(t venue.Totals) VenueBreakdown {
	return VenueBreakdown{
		Quantity: toFloat(t.Quantity),
		Amount:   toFloat(t.Amount),
		AvgPrice: avgPrice(t.Amount, t.Quantity, 2),
	}
}
