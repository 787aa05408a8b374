package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FXQuote is the exchange rate for one unit of the source currency, as
// returned by the rate provider at FetchedAt.
type FXQuote struct {
	From      string          `json:"from"`
	To        string          `json:"to"`
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Convert applies the quote to a send amount.
func (q FXQuote) Convert(amount decimal.Decimal) decimal.Decimal {
	return q.Rate.Mul(amount)
}
