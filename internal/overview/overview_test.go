package overview

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengshuofushi123/greenledger/internal/model"
	"github.com/hengshuofushi123/greenledger/internal/stats"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

type fakeProjects struct {
	projects []model.Project
}

func (f *fakeProjects) List(ctx context.Context, _ model.ProjectFilter) ([]model.Project, error) {
	return f.projects, nil
}

type fakeLedger struct {
	rows []model.LedgerRow
}

func (f *fakeLedger) Rows(ctx context.Context, projectIDs []int, w model.PeriodWindow) ([]model.LedgerRow, error) {
	return f.rows, nil
}

type fakeRegistry struct{}

func (fakeRegistry) Summarize(ctx context.Context, q venue.Query) (map[venue.Key]decimal.Decimal, error) {
	return map[venue.Key]decimal.Decimal{}, nil
}

func TestBuild(t *testing.T) {
	projects := &fakeProjects{projects: []model.Project{
		{ID: 1, Name: "Wind Farm A", Province: "Gansu", SecondaryUnit: "North Branch"},
		{ID: 2, Name: "Solar Park B", Province: "Qinghai", SecondaryUnit: "West Branch"},
	}}
	ledger := &fakeLedger{rows: []model.LedgerRow{
		{ProjectID: 1, Period: "2024-01", IssuedQty: "100000", SoldQty: "60000"},
		{ProjectID: 2, Period: "2024-01", IssuedQty: "40000", SoldQty: "10000"},
		{ProjectID: 1, Period: "2024-02", IssuedQty: "20000", SoldQty: "5000"},
	}}
	engine := stats.NewEngine(ledger, nil, fakeRegistry{})
	b := NewBuilder(projects, ledger, engine)

	ov, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, ov.ProjectCount)
	assert.Equal(t, 16.0, ov.IssuedTotal)
	assert.Equal(t, 7.5, ov.SoldTotal)

	require.Len(t, ov.TopProvinces, 2)
	assert.Equal(t, "Gansu", ov.TopProvinces[0].Name)
	assert.Equal(t, 6.5, ov.TopProvinces[0].Quantity)
	assert.Equal(t, "Qinghai", ov.TopProvinces[1].Name)

	require.Len(t, ov.Trend, 2)
	assert.Equal(t, "2024-01", ov.Trend[0].Period)
	assert.Equal(t, 14.0, ov.Trend[0].Issued)
	assert.Equal(t, "2024-02", ov.Trend[1].Period)

	require.Len(t, ov.TopProjects, 2)
	assert.Equal(t, "Wind Farm A", ov.TopProjects[0].Name)
	assert.Equal(t, 12.0, ov.TopProjects[0].Issued)
}

func TestBuild_NoProjects(t *testing.T) {
	engine := stats.NewEngine(&fakeLedger{}, nil, fakeRegistry{})
	b := NewBuilder(&fakeProjects{}, &fakeLedger{}, engine)

	ov, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ov.ProjectCount)
	assert.Equal(t, 0.0, ov.IssuedTotal)
	assert.Empty(t, ov.TopProvinces)
	assert.Empty(t, ov.Trend)
	assert.Empty(t, ov.TopProjects)
}

func TestBuild_BlankProvinceRankedAsUnknown(t *testing.T) {
	projects := &fakeProjects{projects: []model.Project{{ID: 1, Name: "Orphan"}}}
	ledger := &fakeLedger{rows: []model.LedgerRow{
		{ProjectID: 1, Period: "2024-01", IssuedQty: "10000", SoldQty: "10000"},
	}}
	engine := stats.NewEngine(ledger, nil, fakeRegistry{})
	b := NewBuilder(projects, ledger, engine)

	ov, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, ov.TopProvinces, 1)
	assert.Equal(t, model.UnknownDimensionValue, ov.TopProvinces[0].Name)
}
