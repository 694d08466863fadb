package venue

import "github.com/hengshuofushi123/greenledger/internal/model"

// Descriptor is the static metadata for one trading venue: which columns of
// its fact table carry the production period, transaction timestamp, quantity
// and money side, and whether a settled-status filter applies. Adding a venue
// means adding one descriptor here (plus a period format if it invents a new
// one); the aggregation engine never learns venue specifics.
type Descriptor struct {
	Key          string
	Name         string
	Table        string
	PeriodColumn string
	PeriodFormat model.PeriodFormat
	TimeColumn   string
	QtyColumn    string
	// Exactly one of AmountColumn and PriceColumn is set. When PriceColumn
	// is set the row amount is quantity x unit price.
	AmountColumn string
	PriceColumn  string
	// StatusColumn/SettledStatus are empty for venues that only report
	// finalized trades.
	StatusColumn  string
	SettledStatus string
}

// Descriptors returns the five trading venues in presentation order.
func Descriptors() []Descriptor {
	return []Descriptor{
		{
			Key:           "unilateral",
			Name:          "GZPT unilateral listings",
			Table:         "gzpt_unilateral_listings",
			PeriodColumn:  "generate_ym",
			PeriodFormat:  model.PeriodCompact,
			TimeColumn:    "order_time",
			QtyColumn:     "total_quantity",
			AmountColumn:  "total_amount",
			StatusColumn:  "order_status",
			SettledStatus: "1",
		},
		{
			Key:          "bilateral_online",
			Name:         "GZPT bilateral online trades",
			Table:        "gzpt_bilateral_online_trades",
			PeriodColumn: "generate_ym",
			PeriodFormat: model.PeriodCompact,
			TimeColumn:   "order_time",
			QtyColumn:    "total_quantity",
			AmountColumn: "total_amount",
		},
		{
			Key:           "bilateral_offline",
			Name:          "GZPT bilateral offline trades",
			Table:         "gzpt_bilateral_offline_trades",
			PeriodColumn:  "generate_ym",
			PeriodFormat:  model.PeriodCompact,
			TimeColumn:    "order_time",
			QtyColumn:     "total_quantity",
			AmountColumn:  "total_amount",
			StatusColumn:  "order_status",
			SettledStatus: "3",
		},
		{
			Key:          "beijing",
			Name:         "Beijing power exchange",
			Table:        "beijing_exchange_trades",
			PeriodColumn: "production_year_month",
			PeriodFormat: model.PeriodDashed,
			TimeColumn:   "transaction_time",
			QtyColumn:    "transaction_quantity",
			PriceColumn:  "transaction_price",
		},
		{
			Key:          "guangzhou",
			Name:         "Guangzhou power exchange",
			Table:        "guangzhou_exchange_trades",
			PeriodColumn: "product_date",
			PeriodFormat: model.PeriodLoose,
			TimeColumn:   "deal_time",
			QtyColumn:    "certificate_count",
			AmountColumn: "total_cost",
		},
	}
}
