package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

// LedgerReader supplies certificate-ledger rows for a set of projects within
// a production window.
type LedgerReader interface {
	Rows(ctx context.Context, projectIDs []int, w model.PeriodWindow) ([]model.LedgerRow, error)
}

// RegistrySummarizer supplies per-(project, period) sold quantities from the
// issuance registry platform.
type RegistrySummarizer interface {
	Summarize(ctx context.Context, q venue.Query) (map[venue.Key]decimal.Decimal, error)
}

// Engine computes the cross-venue rollups. It is stateless: every call reads
// the stores fresh and builds its result from scratch.
type Engine struct {
	ledger   LedgerReader
	venues   []venue.Source
	registry RegistrySummarizer
}

// NewEngine wires the engine to its sources. Venue order is preserved in
// per-venue breakdowns.
func NewEngine(ledger LedgerReader, venues []venue.Source, registry RegistrySummarizer) *Engine {
	return &Engine{ledger: ledger, venues: venues, registry: registry}
}

// VenueKeys returns the venue keys in breakdown order.
func (e *Engine) VenueKeys() []string {
	keys := make([]string, len(e.venues))
	for i, v := range e.venues {
		keys[i] = v.Key()
	}
	return keys
}

// TotalRowValue labels the synthetic grand-total row prepended to dimension
// rollups.
const TotalRowValue = "total"

// DimensionQuery is one dimension-rollup request. Projects is the resolved
// allow-list: attribute filters and ownership scoping happen upstream.
type DimensionQuery struct {
	Dimension   model.Dimension
	Projects    []model.Project
	Production  model.PeriodWindow
	Transaction model.TimeWindow
}

// DimensionRow is one output row of a dimension rollup. Ratios are
// percentages rounded to one decimal; AvgPrice is the weighted average
// settlement price across all venues, one decimal.
type DimensionRow struct {
	Value             string
	Issued            float64
	PlatformSold      float64
	RegistrySold      float64
	PlatformSoldRatio float64
	RegistrySoldRatio float64
	AvgPrice          float64
}

type dimAccumulator struct {
	issued       decimal.Decimal
	soldQty      decimal.Decimal
	soldAmt      decimal.Decimal
	registrySold decimal.Decimal
}

// DimensionRollup aggregates issued and sold quantities per dimension value.
// The first returned row is always the synthetic total; the rest are ordered
// by descending issued quantity. An empty project set yields an empty slice.
func (e *Engine) DimensionRollup(ctx context.Context, q DimensionQuery) ([]DimensionRow, error) {
	if !q.Dimension.Valid() {
		return nil, fmt.Errorf("unknown dimension %q", q.Dimension)
	}
	if len(q.Projects) == 0 {
		return []DimensionRow{}, nil
	}

	ids, byID := indexProjects(q.Projects)
	vq := venue.Query{ProjectIDs: ids, Production: q.Production, Transaction: q.Transaction}

	ledgerRows, err := e.ledger.Rows(ctx, ids, q.Production)
	if err != nil {
		return nil, fmt.Errorf("dimension rollup: %w", err)
	}
	summaries, err := e.summarizeVenues(ctx, vq)
	if err != nil {
		return nil, fmt.Errorf("dimension rollup: %w", err)
	}
	registry, err := e.registry.Summarize(ctx, vq)
	if err != nil {
		return nil, fmt.Errorf("dimension rollup: %w", err)
	}

	accs := make(map[string]*dimAccumulator)
	acc := func(value string) *dimAccumulator {
		a, ok := accs[value]
		if !ok {
			a = &dimAccumulator{}
			accs[value] = a
		}
		return a
	}

	// The ledger drives issued totals and, via the pre-aggregated venue
	// summaries, the platform-sold totals. Each summary entry is consumed
	// exactly once because the ledger holds at most one row per key.
	for _, row := range ledgerRows {
		p, ok := byID[row.ProjectID]
		if !ok {
			continue
		}
		a := acc(q.Dimension.ValueOf(p))
		a.issued = a.issued.Add(model.DecimalOrZero(row.IssuedQty))
		k := venue.Key{ProjectID: row.ProjectID, Period: row.Period}
		for _, summary := range summaries {
			if t, ok := summary[k]; ok {
				a.soldQty = a.soldQty.Add(t.Quantity)
				a.soldAmt = a.soldAmt.Add(t.Amount)
			}
		}
	}

	// Registry-platform sales accumulate independently of the ledger join:
	// a dimension value that only ever sold through the registry still gets
	// a row.
	for k, qty := range registry {
		p, ok := byID[k.ProjectID]
		if !ok {
			continue
		}
		a := acc(q.Dimension.ValueOf(p))
		a.registrySold = a.registrySold.Add(qty)
	}

	rows := make([]DimensionRow, 0, len(accs))
	var total dimAccumulator
	for value, a := range accs {
		rows = append(rows, DimensionRow{
			Value:             value,
			Issued:            toFloat(a.issued),
			PlatformSold:      toFloat(a.soldQty),
			RegistrySold:      toFloat(a.registrySold),
			PlatformSoldRatio: ratio(a.soldQty, a.issued),
			RegistrySoldRatio: ratio(a.registrySold, a.issued),
			AvgPrice:          avgPrice(a.soldAmt, a.soldQty, 1),
		})
		total.issued = total.issued.Add(a.issued)
		total.soldQty = total.soldQty.Add(a.soldQty)
		total.soldAmt = total.soldAmt.Add(a.soldAmt)
		total.registrySold = total.registrySold.Add(a.registrySold)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Issued > rows[j].Issued })

	if len(rows) > 0 {
		rows = append([]DimensionRow{{
			Value:             TotalRowValue,
			Issued:            toFloat(total.issued),
			PlatformSold:      toFloat(total.soldQty),
			RegistrySold:      toFloat(total.registrySold),
			PlatformSoldRatio: ratio(total.soldQty, total.issued),
			RegistrySoldRatio: ratio(total.registrySold, total.issued),
			AvgPrice:          avgPrice(total.soldAmt, total.soldQty, 1),
		}}, rows...)
	}
	return rows, nil
}

func (e *Engine) summarizeVenues(ctx context.Context, q venue.Query) ([]map[venue.Key]venue.Totals, error) {
	out := make([]map[venue.Key]venue.Totals, len(e.venues))
	for i, v := range e.venues {
		summary, err := v.Summarize(ctx, q)
		if err != nil {
			return nil, err
		}
		out[i] = summary
	}
	return out, nil
}

func indexProjects(projects []model.Project) ([]int, map[int]model.Project) {
	ids := make([]int, 0, len(projects))
	byID := make(map[int]model.Project, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}
	return ids, byID
}

// ratio is part/whole as a percentage rounded to one decimal, zero when the
// denominator is zero.
func ratio(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return toFloat(part.Div(whole).Mul(decimal.NewFromInt(100)).Round(1))
}

// avgPrice is amount/quantity rounded to the given number of decimals, zero
// when nothing sold.
func avgPrice(amount, quantity decimal.Decimal, places int32) float64 {
	if quantity.IsZero() {
		return 0
	}
	return toFloat(amount.Div(quantity).Round(places))
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
