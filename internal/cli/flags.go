package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value for a YYYY-MM-DD calendar day.
type dateValue struct{ p *time.Time }

func (d dateValue) String() string {
	if d.p == nil || d.p.IsZero() {
		return ""
	}
	return d.p.Format(domain.DateLayout)
}

func (d dateValue) Set(s string) error {
	t, err := domain.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*d.p = t
	return nil
}

func (d dateValue) Type() string { return "date" }

func dateVar(fs *pflag.FlagSet, p *time.Time, name, usage string) {
	fs.Var(dateValue{p: p}, name, usage+" (YYYY-MM-DD)")
}

// decimalValue is a pflag.Value for an optional money amount.
type decimalValue struct{ p **decimal.Decimal }

func (d decimalValue) String() string {
	if d.p == nil || *d.p == nil {
		return ""
	}
	return (*d.p).String()
}

func (d decimalValue) Set(s string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid amount %q", s)
	}
	*d.p = &v
	return nil
}

func (d decimalValue) Type() string { return "amount" }

func decimalVar(fs *pflag.FlagSet, p **decimal.Decimal, name, usage string) {
	fs.Var(decimalValue{p: p}, name, usage)
}

// enumArg normalises user input such as "sick-leave" to SICK_LEAVE.
func enumArg(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
