package domain

import "github.com/shopspring/decimal"

// CommissionType discriminates how a transfer fee is computed.
type CommissionType string

const (
	CommissionPercentage CommissionType = "percentage"
	CommissionFixed      CommissionType = "fixed"
)

// Commission is the fee rule applied to a transfer.
// For percentage commissions Rate is a percent value (2 means 2%) and
// Minimum is the fee floor. For fixed commissions Rate is the fee itself.
type Commission struct {
	Type    CommissionType  `json:"type"`
	Rate    decimal.Decimal `json:"rate"`
	Minimum decimal.Decimal `json:"minimum"`
}

// ComputeFee returns the fee for sending amount under the given commission.
// percentage: max(amount * rate / 100, minimum). fixed: rate.
func ComputeFee(amount decimal.Decimal, c Commission) decimal.Decimal {
	if c.Type == CommissionPercentage {
		fee := amount.Mul(c.Rate).Div(decimal.NewFromInt(100))
		if fee.LessThan(c.Minimum) {
			return c.Minimum
		}
		return fee
	}
	return c.Rate
}

// defaultCommission applies when no per-currency rule exists.
var defaultCommission = Commission{
	Type:    CommissionPercentage,
	Rate:    decimal.NewFromInt(2),
	Minimum: decimal.NewFromInt(5),
}

// commissionTable holds per-source-currency fee rules.
var commissionTable = map[string]Commission{
	"USD": {Type: CommissionPercentage, Rate: decimal.NewFromInt(2), Minimum: decimal.NewFromInt(5)},
	"EUR": {Type: CommissionPercentage, Rate: decimal.NewFromInt(2), Minimum: decimal.NewFromInt(5)},
	"GBP": {Type: CommissionPercentage, Rate: decimal.RequireFromString("1.5"), Minimum: decimal.NewFromInt(4)},
	"JPY": {Type: CommissionFixed, Rate: decimal.NewFromInt(500)},
}

// CommissionFor returns the fee rule for a source currency.
func CommissionFor(sourceCurrency string) Commission {
	if c, ok := commissionTable[sourceCurrency]; ok {
		return c
	}
	return defaultCommission
}
