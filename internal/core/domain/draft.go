package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WizardStep is the position inside the send-money wizard.
type WizardStep int

const (
	StepDestination WizardStep = iota
	StepAmount
	StepMethod
	StepReview
)

// String returns the step name used in API payloads and error messages.
func (s WizardStep) String() string {
	switch s {
	case StepDestination:
		return "destination"
	case StepAmount:
		return "amount"
	case StepMethod:
		return "method"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ErrStaleQuote is returned when a quote was computed against an older draft
// revision. The caller must re-quote against the current amount.
var ErrStaleQuote = errors.New("quote computed against a superseded draft revision")

// ErrAtFinalStep is returned when Advance is called at the review step.
// The review step terminates via Confirm, not Advance.
var ErrAtFinalStep = errors.New("already at the review step")

// TransferDraft is the accumulated state of one send-money wizard session.
// It lives in the draft store for the session TTL and is discarded on
// submission. Version increments on every destination or amount mutation so
// that concurrently-resolved FX quotes can be rejected when stale.
type TransferDraft struct {
	ID      uuid.UUID  `json:"id"`
	UserID  uuid.UUID  `json:"user_id"`
	Step    WizardStep `json:"step"`
	Version int64      `json:"version"`

	SourceAccountID uuid.UUID `json:"source_account_id"`
	SourceCurrency  string    `json:"source_currency"`

	DestinationCountry  string     `json:"destination_country"`
	DestinationCurrency string     `json:"destination_currency"`
	BeneficiaryID       *uuid.UUID `json:"beneficiary_id,omitempty"`
	BeneficiaryName     string     `json:"beneficiary_name,omitempty"`

	SendAmount      decimal.Decimal `json:"send_amount"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	Quoted          bool            `json:"quoted"`

	Method       TransferMethod    `json:"method,omitempty"`
	MethodFields map[string]string `json:"method_fields,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTransferDraft starts a wizard session funded by the given account.
func NewTransferDraft(userID uuid.UUID, account *Account) *TransferDraft {
	now := time.Now().UTC()
	return &TransferDraft{
		ID:              uuid.New(),
		UserID:          userID,
		Step:            StepDestination,
		Version:         1,
		SourceAccountID: account.ID,
		SourceCurrency:  account.Currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// TotalDebit is the full amount taken from the funding account.
func (d *TransferDraft) TotalDebit() decimal.Decimal {
	return d.SendAmount.Add(d.FeeAmount)
}

// Bump marks a mutation of quote-relevant state: the version advances and any
// attached quote becomes stale.
func (d *TransferDraft) Bump() {
	d.Version++
	d.UpdatedAt = time.Now().UTC()
}

// ClearQuote drops the FX quote and derived amounts.
func (d *TransferDraft) ClearQuote() {
	d.ExchangeRate = decimal.Zero
	d.ConvertedAmount = decimal.Zero
	d.Quoted = false
}

// ClearAmount resets the amount step after a rejected write.
func (d *TransferDraft) ClearAmount() {
	d.SendAmount = decimal.Zero
	d.FeeAmount = decimal.Zero
	d.ClearQuote()
}

// ApplyQuote attaches a quote that was computed while the draft was at
// version. Returns ErrStaleQuote if the draft has moved on since.
func (d *TransferDraft) ApplyQuote(q FXQuote, version int64) error {
	if version != d.Version {
		return ErrStaleQuote
	}
	d.ExchangeRate = q.Rate
	d.ConvertedAmount = q.Convert(d.SendAmount)
	d.Quoted = true
	return nil
}

// StepComplete reports whether the given step's own validation passes.
func (d *TransferDraft) StepComplete(step WizardStep) error {
	switch step {
	case StepDestination:
		if d.DestinationCurrency == "" || d.DestinationCountry == "" {
			return errors.New("destination not selected")
		}
		if !IsSupportedCurrency(d.DestinationCurrency) {
			return fmt.Errorf("unsupported destination currency %s", d.DestinationCurrency)
		}
	case StepAmount:
		if d.SendAmount.LessThanOrEqual(decimal.Zero) {
			return errors.New("send amount not set")
		}
		if !d.Quoted {
			return errors.New("exchange quote not attached")
		}
	case StepMethod:
		if d.Method == "" {
			return errors.New("transfer method not resolved")
		}
		if d.Method != ResolveMethod(d.DestinationCurrency) {
			return fmt.Errorf("method %s does not match the %s corridor", d.Method, d.DestinationCurrency)
		}
		if missing := MissingRequiredFields(d.Method, d.MethodFields); len(missing) > 0 {
			return fmt.Errorf("missing required fields: %v", missing)
		}
	case StepReview:
		// Review has no inputs of its own; it terminates via Confirm.
	}
	return nil
}

// Advance moves the wizard forward one step after the current step's own
// validation passes. Transitions are strictly adjacent.
func (d *TransferDraft) Advance() error {
	if d.Step == StepReview {
		return ErrAtFinalStep
	}
	if err := d.StepComplete(d.Step); err != nil {
		return err
	}
	d.Step++
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Back moves the wizard one step back, unconditionally. At the first step it
// is a no-op.
func (d *TransferDraft) Back() {
	if d.Step > StepDestination {
		d.Step--
		d.UpdatedAt = time.Now().UTC()
	}
}

// Confirmable reports whether the draft can be submitted: every step's
// validation must hold and the wizard must be at the review step.
func (d *TransferDraft) Confirmable() error {
	if d.Step != StepReview {
		return fmt.Errorf("draft at step %s, not review", d.Step)
	}
	for _, step := range []WizardStep{StepDestination, StepAmount, StepMethod} {
		if err := d.StepComplete(step); err != nil {
			return fmt.Errorf("step %s: %w", step, err)
		}
	}
	return nil
}
