package models

// DimensionRow is one row of a dimension rollup. The first row is always the
// synthetic "total".
type DimensionRow struct {
	Value             string  `json:"value"`
	Issued            float64 `json:"issued"`
	PlatformSold      float64 `json:"platform_sold"`
	RegistrySold      float64 `json:"registry_sold"`
	PlatformSoldRatio float64 `json:"platform_sold_ratio"`
	RegistrySoldRatio float64 `json:"registry_sold_ratio"`
	AvgPrice          float64 `json:"avg_price"`
}

// DimensionStatsResponse is the response for POST /api/v1/stats/dimensions.
type DimensionStatsResponse struct {
	Dimension string         `json:"dimension"`
	Rows      []DimensionRow `json:"rows"`
}

// VenueBreakdown is one venue's contribution to a period row.
type VenueBreakdown struct {
	Quantity float64 `json:"quantity"`
	Amount   float64 `json:"amount"`
	AvgPrice float64 `json:"avg_price"`
}

// ProductionPeriodRow aggregates one production month.
type ProductionPeriodRow struct {
	Period         string                    `json:"period"`
	IssuedOrdinary float64                   `json:"issued_ordinary"`
	IssuedGreen    float64                   `json:"issued_green"`
	RegistrySold   float64                   `json:"registry_sold"`
	Venues         map[string]VenueBreakdown `json:"venues"`
}

// ProductionStatsResponse is the response for
// POST /api/v1/stats/production-periods.
type ProductionStatsResponse struct {
	Rows []ProductionPeriodRow `json:"rows"`
}

// TransactionPeriodRow aggregates one settlement month.
type TransactionPeriodRow struct {
	Month  string                    `json:"month"`
	Venues map[string]VenueBreakdown `json:"venues"`
}

// TransactionStatsResponse is the response for
// POST /api/v1/stats/transaction-periods.
type TransactionStatsResponse struct {
	Rows []TransactionPeriodRow `json:"rows"`
}

// ProjectInfo is one project in the listing endpoint.
type ProjectInfo struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	Province            string  `json:"province"`
	SecondaryUnit       string  `json:"secondary_unit"`
	PowerType           string  `json:"power_type"`
	ProjectNature       string  `json:"project_nature"`
	InvestmentScope     string  `json:"investment_scope"`
	CapacityMW          float64 `json:"capacity_mw"`
	UHVSupport          bool    `json:"uhv_support"`
	HasSubsidy          bool    `json:"has_subsidy"`
	Filed               bool    `json:"filed"`
	BeijingRegistered   bool    `json:"beijing_registered"`
	GuangzhouRegistered bool    `json:"guangzhou_registered"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
