package models

import (
	"time"

	"github.com/hengshuofushi123/greenledger/internal/model"
)

// ProjectScope narrows a statistics request to a subset of projects. All
// fields are optional; an empty scope covers every project.
type ProjectScope struct {
	ProjectIDs          []int  `json:"project_ids,omitempty" form:"project_ids"`
	Province            string `json:"province,omitempty" form:"province"`
	SecondaryUnit       string `json:"secondary_unit,omitempty" form:"secondary_unit"`
	PowerType           string `json:"power_type,omitempty" form:"power_type"`
	ProjectNature       string `json:"project_nature,omitempty" form:"project_nature"`
	InvestmentScope     string `json:"investment_scope,omitempty" form:"investment_scope"`
	UHVSupport          *bool  `json:"uhv_support,omitempty" form:"uhv_support"`
	HasSubsidy          *bool  `json:"has_subsidy,omitempty" form:"has_subsidy"`
	Filed               *bool  `json:"filed,omitempty" form:"filed"`
	BeijingRegistered   *bool  `json:"beijing_registered,omitempty" form:"beijing_registered"`
	GuangzhouRegistered *bool  `json:"guangzhou_registered,omitempty" form:"guangzhou_registered"`
}

// ToFilter converts the scope to a store filter.
func (s ProjectScope) ToFilter() model.ProjectFilter {
	return model.ProjectFilter{
		IDs:                 s.ProjectIDs,
		Province:            s.Province,
		SecondaryUnit:       s.SecondaryUnit,
		PowerType:           s.PowerType,
		ProjectNature:       s.ProjectNature,
		InvestmentScope:     s.InvestmentScope,
		UHVSupport:          s.UHVSupport,
		HasSubsidy:          s.HasSubsidy,
		Filed:               s.Filed,
		BeijingRegistered:   s.BeijingRegistered,
		GuangzhouRegistered: s.GuangzhouRegistered,
	}
}

// WindowScope bounds a statistics request in time. Production bounds are
// "YYYY-MM" months, transaction bounds are "YYYY-MM-DD" dates; all optional.
type WindowScope struct {
	ProductionStart  string `json:"production_start,omitempty"`
	ProductionEnd    string `json:"production_end,omitempty"`
	TransactionStart string `json:"transaction_start,omitempty"`
	TransactionEnd   string `json:"transaction_end,omitempty"`
}

// ProductionWindow builds the inclusive production-month window. A request
// supplying only one bound gets the default for the other: January of the
// current year, or the current month.
func (w WindowScope) ProductionWindow(now time.Time) model.PeriodWindow {
	return model.DefaultPeriodWindow(w.ProductionStart, w.ProductionEnd, now)
}

// TransactionWindow builds the settlement-time window. A start without an
// end runs up to the current date.
func (w WindowScope) TransactionWindow(now time.Time) model.TimeWindow {
	return model.DefaultTimeWindow(w.TransactionStart, w.TransactionEnd, now)
}

// Validate checks that the supplied bounds are well formed.
func (w WindowScope) Validate() string {
	if w.ProductionStart != "" {
		if _, ok := model.NormalizePeriod(w.ProductionStart, model.PeriodDashed); !ok {
			return "production_start must be YYYY-MM"
		}
	}
	if w.ProductionEnd != "" {
		if _, ok := model.NormalizePeriod(w.ProductionEnd, model.PeriodDashed); !ok {
			return "production_end must be YYYY-MM"
		}
	}
	if w.TransactionStart != "" && len(w.TransactionStart) != 10 {
		return "transaction_start must be YYYY-MM-DD"
	}
	if w.TransactionEnd != "" && len(w.TransactionEnd) != 10 {
		return "transaction_end must be YYYY-MM-DD"
	}
	return ""
}

// DimensionStatsRequest is the body for POST /api/v1/stats/dimensions.
type DimensionStatsRequest struct {
	Dimension string `json:"dimension" binding:"required"`
	ProjectScope
	WindowScope
}

// PeriodStatsRequest is the body for the production-period and
// transaction-period rollup endpoints.
type PeriodStatsRequest struct {
	ProjectScope
	WindowScope
}
