package model

// LedgerRow is one certificate-ledger entry: the authority-issued and
// authority-reported-sold quantities for a project and production month.
// At most one row exists per (project, period); that uniqueness is enforced
// by the ingestion side and assumed here.
//
// Quantities are kept as the raw strings the authority publishes. They are
// parsed leniently at aggregation time so one bad cell cannot sink a report.
type LedgerRow struct {
	ProjectID int
	Period    Period
	IssuedQty string
	GreenQty  string
	SoldQty   string
}

// FactRow is one raw trade row from a venue, reduced to the fields the
// summarizer consumes. The venue descriptor says how to interpret Period and
// whether Amount or Price carries the money side.
type FactRow struct {
	ProjectID int
	Period    string
	TradeTime string
	Quantity  string
	Amount    string
	Price     string
	Status    string
}

// RegistryTrade is one settlement record from the issuance registry's own
// trading platform, the simpler sixth source. Its production month arrives as
// two integer columns rather than a formatted string.
type RegistryTrade struct {
	ProjectID       int
	ProductionYear  int
	ProductionMonth int
	Quantity        string
	TradeTime       string
}
