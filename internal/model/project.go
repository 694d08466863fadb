package model

// Project is an owned generation asset registered with the certificate
// authority. The reconciliation core reads projects but never mutates them;
// lifecycle belongs to the registry CRUD layer.
type Project struct {
	ID                  int
	Name                string
	Province            string
	SecondaryUnit       string
	PowerType           string
	ProjectNature       string
	InvestmentScope     string
	CapacityMW          float64
	UHVSupport          bool
	HasSubsidy          bool
	Filed               bool
	BeijingRegistered   bool
	GuangzhouRegistered bool
}

// ProjectFilter selects projects by attribute equality and an optional id
// allow-list. Zero-valued fields do not constrain.
type ProjectFilter struct {
	IDs                 []int
	Province            string
	SecondaryUnit       string
	PowerType           string
	ProjectNature       string
	InvestmentScope     string
	UHVSupport          *bool
	HasSubsidy          *bool
	Filed               *bool
	BeijingRegistered   *bool
	GuangzhouRegistered *bool
}

// Dimension selects the project attribute a rollup groups by.
type Dimension string

const (
	DimensionProvince            Dimension = "province"
	DimensionSecondaryUnit       Dimension = "secondary_unit"
	DimensionPowerType           Dimension = "power_type"
	DimensionProjectNature       Dimension = "project_nature"
	DimensionInvestmentScope     Dimension = "investment_scope"
	DimensionCapacityBucket      Dimension = "capacity_bucket"
	DimensionUHVSupport          Dimension = "uhv_support"
	DimensionSubsidy             Dimension = "subsidy"
	DimensionFiled               Dimension = "filed"
	DimensionBeijingRegistered   Dimension = "beijing_registered"
	DimensionGuangzhouRegistered Dimension = "guangzhou_registered"
)

// UnknownDimensionValue stands in for projects with no value for the
// requested attribute.
const UnknownDimensionValue = "unknown"

// Valid reports whether d names a supported dimension.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionProvince, DimensionSecondaryUnit, DimensionPowerType,
		DimensionProjectNature, DimensionInvestmentScope, DimensionCapacityBucket,
		DimensionUHVSupport, DimensionSubsidy, DimensionFiled,
		DimensionBeijingRegistered, DimensionGuangzhouRegistered:
		return true
	}
	return false
}

// ValueOf resolves the dimension value for a project.
func (d Dimension) ValueOf(p Project) string {
	var v string
	switch d {
	case DimensionProvince:
		v = p.Province
	case DimensionSecondaryUnit:
		v = p.SecondaryUnit
	case DimensionPowerType:
		v = p.PowerType
	case DimensionProjectNature:
		v = p.ProjectNature
	case DimensionInvestmentScope:
		v = p.InvestmentScope
	case DimensionCapacityBucket:
		return capacityBucket(p.CapacityMW)
	case DimensionUHVSupport:
		return yesNo(p.UHVSupport)
	case DimensionSubsidy:
		return yesNo(p.HasSubsidy)
	case DimensionFiled:
		return yesNo(p.Filed)
	case DimensionBeijingRegistered:
		return yesNo(p.BeijingRegistered)
	case DimensionGuangzhouRegistered:
		return yesNo(p.GuangzhouRegistered)
	}
	if v == "" {
		return UnknownDimensionValue
	}
	return v
}

func capacityBucket(mw float64) string {
	switch {
	case mw <= 0:
		return UnknownDimensionValue
	case mw < 50:
		return "<50MW"
	case mw < 100:
		return "50-100MW"
	case mw < 200:
		return "100-200MW"
	case mw < 500:
		return "200-500MW"
	default:
		return ">=500MW"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
