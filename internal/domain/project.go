package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var projectIDPattern = regexp.MustCompile(`^[A-Z]{2,5}-[0-9]{4}-[0-9]{4}$`)

type Project struct {
	ID          string
	Description string
	Status      ProjectStatus
	StartDate   time.Time
	EndDate     time.Time
	ManagerID   *string

	// Financials, nil when unknown.
	Budget  *decimal.Decimal
	Revenue *decimal.Decimal
	Costs   *decimal.Decimal

	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateID requires a non-blank business key. Any other format is accepted.
func (p *Project) ValidateID() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("project ID is required")
	}
	return nil
}

// ConventionalID reports whether the key follows the house format: 2-5
// uppercase letters, a four-digit year and a four-digit sequence
// (PRJ-2024-0001).
func (p *Project) ConventionalID() bool {
	return projectIDPattern.MatchString(p.ID)
}

func (p *Project) Range() DateRange {
	return NewDateRange(p.StartDate, p.EndDate)
}

// Margin returns revenue minus costs, or nil when either is unknown.
func (p *Project) Margin() *decimal.Decimal {
	if p.Revenue == nil || p.Costs == nil {
		return nil
	}
	m := p.Revenue.Sub(*p.Costs)
	return &m
}

// OverBudget reports whether known costs exceed a known budget.
func (p *Project) OverBudget() bool {
	if p.Budget == nil || p.Costs == nil {
		return false
	}
	return p.Costs.GreaterThan(*p.Budget)
}

func (p *Project) IsDeleted() bool {
	return p.DeletedAt != nil
}
