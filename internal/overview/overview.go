package overview

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/stats"
)

// trendMonths bounds the issuance trend to the most recent ledger months.
const trendMonths = 12

// topN bounds the ranked breakdowns on the overview.
const topN = 10

// NamedQuantity is one ranked breakdown entry. Quantity is in units of ten
// thousand certificates, one decimal.
type NamedQuantity struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// TrendPoint is one month of the issuance trend, in ten-thousand units.
type TrendPoint struct {
	Period string  `json:"period"`
	Issued float64 `json:"issued"`
	Sold   float64 `json:"sold"`
}

// ProjectIssuance ranks one project on the overview, in ten-thousand units.
type ProjectIssuance struct {
	Name     string  `json:"name"`
	Province string  `json:"province"`
	Issued   float64 `json:"issued"`
	Sold     float64 `json:"sold"`
}

// Overview is the dashboard payload: the fixed, unfiltered summary of the
// whole ledger that the cache manager materializes.
type Overview struct {
	ProjectCount int               `json:"project_count"`
	IssuedTotal  float64           `json:"issued_total"`
	SoldTotal    float64           `json:"sold_total"`
	AvgPrice     float64           `json:"avg_price"`
	TopProvinces []NamedQuantity   `json:"top_provinces"`
	TopUnits     []NamedQuantity   `json:"top_units"`
	Trend        []TrendPoint      `json:"trend"`
	TopProjects  []ProjectIssuance `json:"top_projects"`
}

// ProjectLister supplies the full project set for the overview.
type ProjectLister interface {
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error)
}

// Builder computes the overview payload from scratch. It holds no state;
// every Build is a full recomputation.
type Builder struct {
	projects ProjectLister
	ledger   stats.LedgerReader
	engine   *stats.Engine
}

// NewBuilder wires the overview computation to its sources.
func NewBuilder(projects ProjectLister, ledger stats.LedgerReader, engine *stats.Engine) *Builder {
	return &Builder{projects: projects, ledger: ledger, engine: engine}
}

// Build computes the overview across all projects with no window constraints.
func (b *Builder) Build(ctx context.Context) (*Overview, error) {
	projects, err := b.projects.List(ctx, model.ProjectFilter{})
	if err != nil {
		return nil, fmt.Errorf("overview: list projects: %w", err)
	}
	out := &Overview{
		ProjectCount: len(projects),
		TopProvinces: []NamedQuantity{},
		TopUnits:     []NamedQuantity{},
		Trend:        []TrendPoint{},
		TopProjects:  []ProjectIssuance{},
	}
	if len(projects) == 0 {
		return out, nil
	}

	ids := make([]int, 0, len(projects))
	byID := make(map[int]model.Project, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	rows, err := b.ledger.Rows(ctx, ids, model.UnboundedPeriodWindow())
	if err != nil {
		return nil, fmt.Errorf("overview: ledger rows: %w", err)
	}

	type pair struct{ issued, sold decimal.Decimal }
	var total pair
	byProvince := make(map[string]decimal.Decimal)
	byUnit := make(map[string]decimal.Decimal)
	byPeriod := make(map[model.Period]*pair)
	byProject := make(map[int]*pair)
	for _, row := range rows {
		issued := model.DecimalOrZero(row.IssuedQty)
		sold := model.DecimalOrZero(row.SoldQty)
		total.issued = total.issued.Add(issued)
		total.sold = total.sold.Add(sold)

		if p, ok := byID[row.ProjectID]; ok {
			byProvince[p.Province] = byProvince[p.Province].Add(sold)
			byUnit[p.SecondaryUnit] = byUnit[p.SecondaryUnit].Add(sold)
		}
		pp, ok := byPeriod[row.Period]
		if !ok {
			pp = &pair{}
			byPeriod[row.Period] = pp
		}
		pp.issued = pp.issued.Add(issued)
		pp.sold = pp.sold.Add(sold)
		pj, ok := byProject[row.ProjectID]
		if !ok {
			pj = &pair{}
			byProject[row.ProjectID] = pj
		}
		pj.issued = pj.issued.Add(issued)
		pj.sold = pj.sold.Add(sold)
	}
	out.IssuedTotal = tenThousands(total.issued)
	out.SoldTotal = tenThousands(total.sold)
	out.TopProvinces = rankQuantities(byProvince)
	out.TopUnits = rankQuantities(byUnit)

	periods := make([]model.Period, 0, len(byPeriod))
	for period := range byPeriod {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i] < periods[j] })
	if len(periods) > trendMonths {
		periods = periods[len(periods)-trendMonths:]
	}
	for _, period := range periods {
		pp := byPeriod[period]
		out.Trend = append(out.Trend, TrendPoint{
			Period: string(period),
			Issued: tenThousands(pp.issued),
			Sold:   tenThousands(pp.sold),
		})
	}

	ranked := make([]ProjectIssuance, 0, len(byProject))
	for id, pj := range byProject {
		p := byID[id]
		ranked = append(ranked, ProjectIssuance{
			Name:     p.Name,
			Province: p.Province,
			Issued:   tenThousands(pj.issued),
			Sold:     tenThousands(pj.sold),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Issued > ranked[j].Issued })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out.TopProjects = ranked

	// The weighted average settlement price comes from the dimension engine's
	// grand-total row so the overview and the dimension report always agree.
	dims, err := b.engine.DimensionRollup(ctx, stats.DimensionQuery{
		Dimension:  model.DimensionProvince,
		Projects:   projects,
		Production: model.UnboundedPeriodWindow(),
	})
	if err != nil {
		return nil, fmt.Errorf("overview: average price: %w", err)
	}
	if len(dims) > 0 {
		out.AvgPrice = dims[0].AvgPrice
	}
	return out, nil
}

func rankQuantities(m map[string]decimal.Decimal) []NamedQuantity {
	out := make([]NamedQuantity, 0, len(m))
	for name, qty := range m {
		if name == "" {
			name = model.UnknownDimensionValue
		}
		out = append(out, NamedQuantity{Name: name, Quantity: tenThousands(qty)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// tenThousands converts a certificate count to ten-thousand units, one
// decimal, the unit the dashboard displays everywhere.
func tenThousands(d decimal.Decimal) float64 {
	f, _ := d.Div(decimal.NewFromInt(10000)).Round(1).Float64()
	return f
}
