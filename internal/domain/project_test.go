package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID_AnyNonBlankKey(t *testing.T) {
	cases := []string{"PRJ-2024-0001", "P-2024-0001", "PRJ-2024-1", "harbour"}
	for _, id := range cases {
		p := &Project{ID: id}
		assert.NoError(t, p.ValidateID(), "should accept %q", id)
	}
}

func TestValidateID_Blank(t *testing.T) {
	for _, id := range []string{"", "   "} {
		err := (&Project{ID: id}).ValidateID()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "required")
	}
}

func TestConventionalID(t *testing.T) {
	for _, id := range []string{"PRJ-2024-0001", "AB-1999-9999", "FIELD-2025-0420"} {
		assert.True(t, (&Project{ID: id}).ConventionalID(), "should match %q", id)
	}
	for _, id := range []string{"prj-2024-0001", "PRJ-24-0001", "PRJ20240001", "PRJ-2024-1", "TOOLONG-2024-0001"} {
		assert.False(t, (&Project{ID: id}).ConventionalID(), "should not match %q", id)
	}
}

func TestMargin(t *testing.T) {
	rev := decimal.RequireFromString("1500.50")
	costs := decimal.RequireFromString("1000.25")
	p := &Project{Revenue: &rev, Costs: &costs}

	m := p.Margin()
	require.NotNil(t, m)
	assert.True(t, m.Equal(decimal.RequireFromString("500.25")), "got %s", m)
}

func TestMargin_UnknownCosts(t *testing.T) {
	rev := decimal.NewFromInt(10)
	p := &Project{Revenue: &rev}
	assert.Nil(t, p.Margin())
}

func TestOverBudget(t *testing.T) {
	budget := decimal.NewFromInt(100)
	over := decimal.NewFromInt(101)
	under := decimal.NewFromInt(99)

	assert.True(t, (&Project{Budget: &budget, Costs: &over}).OverBudget())
	assert.False(t, (&Project{Budget: &budget, Costs: &under}).OverBudget())
	assert.False(t, (&Project{Costs: &over}).OverBudget(), "no budget means never over")
}

func TestProjectRange_Normalises(t *testing.T) {
	p := &Project{
		StartDate: time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC),
	}
	r := p.Range()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, 31, r.Days())
}
