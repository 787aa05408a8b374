package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
	"remitflow/pkg/metrics"
)

// WizardServiceImpl implements ports.WizardService. Drafts live in the draft
// store for draftTTL; every mutation rewrites the draft and refreshes the TTL.
type WizardServiceImpl struct {
	draftStore      ports.DraftStore
	accountRepo     ports.AccountRepository
	beneficiaryRepo ports.BeneficiaryRepository
	quoteSvc        ports.QuoteService
	draftTTL        time.Duration
	metrics         *metrics.Collector
	log             zerolog.Logger
}

func NewWizardService(
	draftStore ports.DraftStore,
	accountRepo ports.AccountRepository,
	beneficiaryRepo ports.BeneficiaryRepository,
	quoteSvc ports.QuoteService,
	draftTTL time.Duration,
	collector *metrics.Collector,
	log zerolog.Logger,
) *WizardServiceImpl {
	return &WizardServiceImpl{
		draftStore:      draftStore,
		accountRepo:     accountRepo,
		beneficiaryRepo: beneficiaryRepo,
		quoteSvc:        quoteSvc,
		draftTTL:        draftTTL,
		metrics:         collector,
		log:             log,
	}
}

// StartDraft opens a new wizard session funded by the given account.
func (s *WizardServiceImpl) StartDraft(ctx context.Context, userID, sourceAccountID uuid.UUID) (*domain.TransferDraft, error) {
	account, err := s.accountRepo.GetByID(ctx, sourceAccountID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if account == nil || account.UserID != userID {
		return nil, apperror.ErrNotFound("account")
	}

	draft := domain.NewTransferDraft(userID, account)
	if err := s.draftStore.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save draft: %w", err))
	}

	s.metrics.RecordDraftStarted()
	s.log.Info().
		Str("draft_id", draft.ID.String()).
		Str("user_id", userID.String()).
		Msg("wizard draft started")
	return draft, nil
}

// GetDraft loads a draft owned by the caller. An expired draft surfaces as
// 410 so the client restarts the wizard instead of retrying.
func (s *WizardServiceImpl) GetDraft(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error) {
	return s.loadOwned(ctx, userID, draftID)
}

// SetDestination records where the money goes. Changing the destination
// invalidates any attached quote and any selected method.
func (s *WizardServiceImpl) SetDestination(ctx context.Context, userID, draftID uuid.UUID, input ports.SetDestinationInput) (*domain.TransferDraft, error) {
	draft, err := s.loadOwned(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	country := strings.ToUpper(strings.TrimSpace(input.Country))
	if currency == "" || country == "" {
		return nil, apperror.Validation("destination country and currency are required")
	}
	if !domain.IsSupportedCurrency(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	draft.DestinationCountry = country
	draft.DestinationCurrency = currency
	draft.BeneficiaryID = nil
	draft.BeneficiaryName = ""

	if input.BeneficiaryID != nil {
		beneficiary, err := s.beneficiaryRepo.GetByID(ctx, *input.BeneficiaryID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if beneficiary == nil || beneficiary.UserID != userID {
			return nil, apperror.ErrNotFound("beneficiary")
		}
		draft.BeneficiaryID = &beneficiary.ID
		draft.BeneficiaryName = beneficiary.Name
	}

	// A new corridor voids the quote and the method selection
	draft.ClearQuote()
	draft.Method = ""
	draft.MethodFields = nil
	draft.Bump()

	if err := s.draftStore.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save draft: %w", err))
	}
	return draft, nil
}

// SetAmount sets the send amount and attaches a fresh quote. The quote is
// applied against the version the caller observed; a concurrent mutation in
// between surfaces as 409 so the client re-reads and retries.
func (s *WizardServiceImpl) SetAmount(ctx context.Context, userID, draftID uuid.UUID, input ports.SetAmountInput) (*domain.TransferDraft, error) {
	draft, err := s.loadOwned(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	if err := draft.StepComplete(domain.StepDestination); err != nil {
		return nil, apperror.ErrStepIncomplete(domain.StepDestination.String())
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}
	if input.Version != 0 && input.Version != draft.Version {
		return nil, apperror.ErrQuoteSuperseded()
	}

	quote, err := s.quoteSvc.Quote(ctx, draft.SourceCurrency, draft.DestinationCurrency, input.Amount)
	if err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, draft.SourceAccountID)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}
	if !account.CanCover(quote.SendAmount, quote.FeeAmount) {
		// Leave the draft without an amount so review cannot be reached
		// with an uncoverable total
		draft.ClearAmount()
		draft.Bump()
		if saveErr := s.draftStore.Save(ctx, draft, s.draftTTL); saveErr != nil {
			s.log.Warn().Err(saveErr).Msg("draft save after rejected amount failed")
		}
		return nil, apperror.ErrInsufficientBalance()
	}

	draft.SendAmount = quote.SendAmount
	draft.FeeAmount = quote.FeeAmount
	draft.Bump()
	if err := draft.ApplyQuote(domain.FXQuote{
		From:      quote.SourceCurrency,
		To:        quote.TargetCurrency,
		Rate:      quote.ExchangeRate,
		FetchedAt: quote.QuotedAt,
	}, draft.Version); err != nil {
		return nil, apperror.ErrQuoteSuperseded()
	}

	if err := s.draftStore.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save draft: %w", err))
	}
	return draft, nil
}

// SetMethod accepts the transfer rail and its recipient details. The rail is
// fixed by the destination corridor; anything else is rejected.
func (s *WizardServiceImpl) SetMethod(ctx context.Context, userID, draftID uuid.UUID, input ports.SetMethodInput) (*domain.TransferDraft, error) {
	draft, err := s.loadOwned(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	if err := draft.StepComplete(domain.StepDestination); err != nil {
		return nil, apperror.ErrStepIncomplete(domain.StepDestination.String())
	}

	method := domain.TransferMethod(strings.ToLower(strings.TrimSpace(input.Method)))
	if method != domain.ResolveMethod(draft.DestinationCurrency) {
		return nil, apperror.ErrMethodUnavailable(draft.DestinationCurrency)
	}

	if missing := domain.MissingRequiredFields(method, input.Fields); len(missing) > 0 {
		return nil, apperror.ErrMissingMethodFields(strings.Join(missing, ", "))
	}

	draft.Method = method
	draft.MethodFields = input.Fields
	draft.UpdatedAt = time.Now().UTC()

	if err := s.draftStore.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save draft: %w", err))
	}
	return draft, nil
}

// Advance moves the wizard one step forward.
func (s *WizardServiceImpl) Advance(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error) {
	draft, err := s.loadOwned(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	if err := draft.Advance(); err != nil {
		if errors.Is(err, domain.ErrAtFinalStep) {
			return nil, apperror.Validation("already at review; submit with confirm")
		}
		return nil, apperror.ErrStepIncomplete(draft.Step.String())
	}

	if err := s.draftStore.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save draft: %w", err))
	}
	return draft, nil
}

// Back moves the wizard one step back. Entered values are preserved.
func (s *WizardServiceImpl) Back(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error) {
	draft, err := s.loadOwned(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	draft.Back()

	if err := s.draftStore.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save draft: %w", err))
	}
	return draft, nil
}

func (s *WizardServiceImpl) loadOwned(ctx context.Context, userID, draftID uuid.UUID) (*domain.TransferDraft, error) {
	draft, err := s.draftStore.Get(ctx, draftID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load draft: %w", err))
	}
	if draft == nil {
		return nil, apperror.ErrDraftExpired()
	}
	if draft.UserID != userID {
		return nil, apperror.ErrNotFound("draft")
	}
	return draft, nil
}
