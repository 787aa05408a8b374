package dto

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"required,min=1,max=100"`
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is the response body for successful registration or login.
type AuthResponse struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"` // Unix timestamp
}

// AccountResponse is the response body for a funding account.
type AccountResponse struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

// CreateBeneficiaryRequest is the request body for saving a beneficiary.
type CreateBeneficiaryRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	AccountNumber string `json:"account_number" binding:"required,safe_id,max=50"`
	Country       string `json:"country" binding:"required,len=2,alpha"`
	Currency      string `json:"currency" binding:"required,len=3,alpha"`
}

// BeneficiaryResponse is the response body for a saved beneficiary.
type BeneficiaryResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	Country       string `json:"country"`
	Currency      string `json:"currency"`
	CreatedAt     string `json:"created_at"`
}

// QuoteRequest is the query binding for an ad-hoc FX quote.
type QuoteRequest struct {
	From   string `form:"from" binding:"required,len=3,alpha"`
	To     string `form:"to" binding:"required,len=3,alpha"`
	Amount string `form:"amount" binding:"required,money"`
}

// QuoteResponse is the response body for an FX quote.
type QuoteResponse struct {
	SendAmount      string `json:"send_amount"`
	FeeAmount       string `json:"fee_amount"`
	TotalDebit      string `json:"total_debit"`
	ExchangeRate    string `json:"exchange_rate"`
	ConvertedAmount string `json:"converted_amount"`
	SourceCurrency  string `json:"source_currency"`
	TargetCurrency  string `json:"target_currency"`
	QuotedAt        string `json:"quoted_at"`
}

// StartDraftRequest is the request body for opening a transfer draft.
type StartDraftRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// SetDestinationRequest is the request body for the destination step.
type SetDestinationRequest struct {
	Country       string  `json:"country" binding:"required,len=2,alpha"`
	Currency      string  `json:"currency" binding:"required,len=3,alpha"`
	BeneficiaryID *string `json:"beneficiary_id,omitempty" binding:"omitempty,uuid"`
}

// SetAmountRequest is the request body for the amount step. Version carries
// the draft version the client last saw; a mismatch rejects the write.
type SetAmountRequest struct {
	Amount  string `json:"amount" binding:"required,money"`
	Version int64  `json:"version,omitempty"`
}

// SetMethodRequest is the request body for the method step.
type SetMethodRequest struct {
	Method string            `json:"method" binding:"required,max=20"`
	Fields map[string]string `json:"fields" binding:"required"`
}

// ConfirmRequest is the request body for submitting a draft.
type ConfirmRequest struct {
	ReferenceID string `json:"reference_id" binding:"required,safe_id,max=100"`
}

// DraftResponse is the response body for a transfer draft at any step.
type DraftResponse struct {
	ID              string            `json:"id"`
	AccountID       string            `json:"account_id"`
	Step            string            `json:"step"`
	Version         int64             `json:"version"`
	DestCountry     string            `json:"destination_country,omitempty"`
	DestCurrency    string            `json:"destination_currency,omitempty"`
	BeneficiaryID   *string           `json:"beneficiary_id,omitempty"`
	BeneficiaryName string            `json:"beneficiary_name,omitempty"`
	SendAmount      string            `json:"send_amount,omitempty"`
	FeeAmount       string            `json:"fee_amount,omitempty"`
	TotalDebit      string            `json:"total_debit,omitempty"`
	ExchangeRate    string            `json:"exchange_rate,omitempty"`
	ConvertedAmount string            `json:"converted_amount,omitempty"`
	Method          string            `json:"method,omitempty"`
	MethodFields    map[string]string `json:"method_fields,omitempty"`
	UpdatedAt       string            `json:"updated_at"`
}

// TransferResponse is the response body for a submitted transfer.
type TransferResponse struct {
	ID              string            `json:"id"`
	ReferenceID     string            `json:"reference_id"`
	AccountID       string            `json:"account_id"`
	Status          string            `json:"status"`
	DestCountry     string            `json:"destination_country"`
	DestCurrency    string            `json:"destination_currency"`
	SendAmount      string            `json:"send_amount"`
	FeeAmount       string            `json:"fee_amount"`
	TotalDebit      string            `json:"total_debit"`
	ExchangeRate    string            `json:"exchange_rate"`
	ConvertedAmount string            `json:"converted_amount"`
	Method          string            `json:"method"`
	MethodFields    map[string]string `json:"method_fields,omitempty"`
	FailureReason   *string           `json:"failure_reason,omitempty"`
	CreatedAt       string            `json:"created_at"`
	ProcessedAt     *string           `json:"processed_at,omitempty"`
}

// ListTransfersQuery is the query binding for the transfer list endpoint.
type ListTransfersQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING SUCCESS FAILED"`
	FromDate string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransferListResponse wraps a paginated transfer list.
type TransferListResponse struct {
	Items      []TransferResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// CurrencyResponse describes one supported destination currency.
type CurrencyResponse struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Featured bool   `json:"featured"`
}

// MethodFieldResponse describes one field a payout method requires.
type MethodFieldResponse struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// MethodSchemaResponse describes a payout method and its field schema.
type MethodSchemaResponse struct {
	Method string                `json:"method"`
	Label  string                `json:"label"`
	Fields []MethodFieldResponse `json:"fields"`
}
