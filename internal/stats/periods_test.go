package stats

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

func periodQuery(projects ...model.Project) PeriodQuery {
	return PeriodQuery{Projects: projects, Production: model.UnboundedPeriodWindow()}
}

func TestProductionPeriodRollup(t *testing.T) {
	ledger := &fakeLedger{rows: []model.LedgerRow{
		{ProjectID: 1, Period: "2024-01", IssuedQty: "100", GreenQty: "40"},
		{ProjectID: 2, Period: "2024-01", IssuedQty: "50", GreenQty: "10"},
		{ProjectID: 1, Period: "2024-02", IssuedQty: "200", GreenQty: "80"},
	}}
	venues := []venue.Source{&fakeVenue{key: "a", summary: map[venue.Key]venue.Totals{
		{ProjectID: 1, Period: "2024-01"}: totals(30, 315),
		{ProjectID: 2, Period: "2024-01"}: totals(10, 100),
	}}}
	e := NewEngine(ledger, venues, &fakeRegistry{})

	rows, err := e.ProductionPeriodRollup(context.Background(), periodQuery(
		model.Project{ID: 1}, model.Project{ID: 2},
	))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first.
	assert.Equal(t, "2024-02", rows[0].Period)
	assert.Equal(t, "2024-01", rows[1].Period)

	jan := rows[1]
	assert.Equal(t, 150.0, jan.IssuedOrdinary)
	assert.Equal(t, 50.0, jan.IssuedGreen)
	a := jan.Venues["a"]
	assert.Equal(t, 40.0, a.Quantity)
	assert.Equal(t, 415.0, a.Amount)
	assert.Equal(t, 10.38, a.AvgPrice)

	// A period with no trades still carries a zero breakdown for every venue.
	feb := rows[0]
	assert.Equal(t, 0.0, feb.Venues["a"].Quantity)
	assert.Equal(t, 0.0, feb.Venues["a"].AvgPrice)
}

func TestProductionPeriodRollup_RegistryColumn(t *testing.T) {
	ledger := &fakeLedger{rows: []model.LedgerRow{
		{ProjectID: 1, Period: "2024-01", IssuedQty: "100"},
	}}
	e := NewEngine(ledger, nil, &fakeRegistry{sold: map[venue.Key]decimal.Decimal{
		{ProjectID: 1, Period: "2024-01"}: decimal.NewFromInt(60),
	}})

	rows, err := e.ProductionPeriodRollup(context.Background(), periodQuery(model.Project{ID: 1}))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 60.0, rows[0].RegistrySold)
}

func TestTransactionPeriodRollup(t *testing.T) {
	venues := []venue.Source{
		&fakeVenue{key: "a", byMonth: map[string]venue.Totals{
			"2024-02": totals(10, 100),
			"2024-03": totals(5, 60),
		}},
		&fakeVenue{key: "b", byMonth: map[string]venue.Totals{
			"2024-03": totals(20, 240),
		}},
	}
	e := NewEngine(&fakeLedger{}, venues, &fakeRegistry{})

	rows, err := e.TransactionPeriodRollup(context.Background(), periodQuery(model.Project{ID: 1}))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Newest first; months are the union across venues.
	assert.Equal(t, "2024-03", rows[0].Month)
	assert.Equal(t, "2024-02", rows[1].Month)

	march := rows[0]
	assert.Equal(t, 5.0, march.Venues["a"].Quantity)
	assert.Equal(t, 12.0, march.Venues["a"].AvgPrice)
	assert.Equal(t, 20.0, march.Venues["b"].Quantity)
	assert.Equal(t, 0.0, rows[1].Venues["b"].Quantity)
}

func TestTransactionPeriodRollup_EmptyProjectSet(t *testing.T) {
	e := NewEngine(&fakeLedger{}, nil, &fakeRegistry{})
	rows, err := e.TransactionPeriodRollup(context.Background(), periodQuery())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
