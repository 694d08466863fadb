package venue

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

type fakeTrades struct {
	rows []model.RegistryTrade
}

func (f *fakeTrades) Trades(ctx context.Context, projectIDs []int) ([]model.RegistryTrade, error) {
	return f.rows, nil
}

func TestRegistrySummarize(t *testing.T) {
	src := NewRegistrySource(&fakeTrades{rows: []model.RegistryTrade{
		{ProjectID: 1, ProductionYear: 2024, ProductionMonth: 1, Quantity: "100", TradeTime: "2024-02-01 10:00:00"},
		{ProjectID: 1, ProductionYear: 2024, ProductionMonth: 1, Quantity: "40", TradeTime: "2024-03-01 10:00:00"},
		{ProjectID: 2, ProductionYear: 2024, ProductionMonth: 2, Quantity: "25", TradeTime: "2024-03-05 10:00:00"},
	}})

	out, err := src.Summarize(context.Background(), allQuery(1, 2))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[Key{ProjectID: 1, Period: "2024-01"}].Equal(decimal.NewFromInt(140)))
	assert.True(t, out[Key{ProjectID: 2, Period: "2024-02"}].Equal(decimal.NewFromInt(25)))
}

func TestRegistrySummarize_InvalidMonthSkipped(t *testing.T) {
	src := NewRegistrySource(&fakeTrades{rows: []model.RegistryTrade{
		{ProjectID: 1, ProductionYear: 2024, ProductionMonth: 0, Quantity: "100", TradeTime: "2024-02-01 10:00:00"},
	}})

	out, err := src.Summarize(context.Background(), allQuery(1))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRegistrySummarize_Windows(t *testing.T) {
	src := NewRegistrySource(&fakeTrades{rows: []model.RegistryTrade{
		{ProjectID: 1, ProductionYear: 2023, ProductionMonth: 12, Quantity: "10", TradeTime: "2024-02-01 10:00:00"},
		{ProjectID: 1, ProductionYear: 2024, ProductionMonth: 1, Quantity: "20", TradeTime: "2024-02-01 10:00:00"},
		{ProjectID: 1, ProductionYear: 2024, ProductionMonth: 1, Quantity: "30", TradeTime: "2024-06-01 10:00:00"},
	}})

	q := allQuery(1)
	q.Production = model.NewPeriodWindow("2024-01", "")
	q.Transaction = model.NewTimeWindow("2024-01-01", "2024-03-31")
	out, err := src.Summarize(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[Key{ProjectID: 1, Period: "2024-01"}].Equal(decimal.NewFromInt(20)))
}
