package domain

// Currency describes a supported destination currency.
type Currency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"` // ISO 3166-1 alpha-2 of the primary destination country
	Featured bool   `json:"featured"`
}

// supportedCurrencies is the static destination catalog. Featured entries are
// surfaced first by the destination step.
var supportedCurrencies = []Currency{
	{Code: "USD", Name: "US Dollar", Country: "US", Featured: true},
	{Code: "EUR", Name: "Euro", Country: "DE", Featured: true},
	{Code: "GBP", Name: "Pound Sterling", Country: "GB", Featured: true},
	{Code: "INR", Name: "Indian Rupee", Country: "IN", Featured: true},
	{Code: "AUD", Name: "Australian Dollar", Country: "AU", Featured: false},
	{Code: "CAD", Name: "Canadian Dollar", Country: "CA", Featured: false},
	{Code: "JPY", Name: "Japanese Yen", Country: "JP", Featured: false},
	{Code: "CHF", Name: "Swiss Franc", Country: "CH", Featured: false},
	{Code: "SGD", Name: "Singapore Dollar", Country: "SG", Featured: false},
	{Code: "AED", Name: "UAE Dirham", Country: "AE", Featured: false},
	{Code: "NGN", Name: "Nigerian Naira", Country: "NG", Featured: false},
	{Code: "VND", Name: "Vietnamese Dong", Country: "VN", Featured: false},
}

// SupportedCurrencies returns the full destination currency catalog.
func SupportedCurrencies() []Currency {
	out := make([]Currency, len(supportedCurrencies))
	copy(out, supportedCurrencies)
	return out
}

// CurrencyByCode looks up a currency by its ISO 4217 code.
// Returns nil if the code is not supported.
func CurrencyByCode(code string) *Currency {
	for i := range supportedCurrencies {
		if supportedCurrencies[i].Code == code {
			c := supportedCurrencies[i]
			return &c
		}
	}
	return nil
}

// IsSupportedCurrency reports whether code is in the catalog.
func IsSupportedCurrency(code string) bool {
	return CurrencyByCode(code) != nil
}
