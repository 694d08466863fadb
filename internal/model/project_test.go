package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionValid(t *testing.T) {
	assert.True(t, DimensionProvince.Valid())
	assert.True(t, DimensionCapacityBucket.Valid())
	assert.False(t, Dimension("color").Valid())
	assert.False(t, Dimension("").Valid())
}

func TestDimensionValueOf(t *testing.T) {
	p := Project{
		Province:      "Gansu",
		PowerType:     "wind",
		CapacityMW:    120,
		UHVSupport:    true,
		HasSubsidy:    false,
		SecondaryUnit: "",
	}
	assert.Equal(t, "Gansu", DimensionProvince.ValueOf(p))
	assert.Equal(t, "wind", DimensionPowerType.ValueOf(p))
	assert.Equal(t, "100-200MW", DimensionCapacityBucket.ValueOf(p))
	assert.Equal(t, "yes", DimensionUHVSupport.ValueOf(p))
	assert.Equal(t, "no", DimensionSubsidy.ValueOf(p))
	assert.Equal(t, UnknownDimensionValue, DimensionSecondaryUnit.ValueOf(p))
}

func TestCapacityBuckets(t *testing.T) {
	cases := map[float64]string{
		0:    UnknownDimensionValue,
		10:   "<50MW",
		50:   "50-100MW",
		99:   "50-100MW",
		100:  "100-200MW",
		200:  "200-500MW",
		500:  ">=500MW",
		1200: ">=500MW",
	}
	for mw, want := range cases {
		assert.Equal(t, want, capacityBucket(mw), "capacity %v", mw)
	}
}
