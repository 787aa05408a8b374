package handler

import (
	"remitflow/internal/adapter/http/dto"
	"remitflow/internal/adapter/http/middleware"
	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
	"remitflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// WizardHandler handles the step-by-step transfer draft endpoints.
type WizardHandler struct {
	wizardSvc ports.WizardService
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(wizardSvc ports.WizardService) *WizardHandler {
	return &WizardHandler{wizardSvc: wizardSvc}
}

// Start handles POST /api/v1/transfers/drafts.
func (h *WizardHandler) Start(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.StartDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid account id"))
		return
	}

	draft, err := h.wizardSvc.StartDraft(c.Request.Context(), userID, accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toDraftResponse(draft))
}

// Get handles GET /api/v1/transfers/drafts/:id.
func (h *WizardHandler) Get(c *gin.Context) {
	userID, draftID, ok := h.identify(c)
	if !ok {
		return
	}

	draft, err := h.wizardSvc.GetDraft(c.Request.Context(), userID, draftID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDraftResponse(draft))
}

// SetDestination handles PUT /api/v1/transfers/drafts/:id/destination.
func (h *WizardHandler) SetDestination(c *gin.Context) {
	userID, draftID, ok := h.identify(c)
	if !ok {
		return
	}

	var req dto.SetDestinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	input := ports.SetDestinationInput{
		Country:  req.Country,
		Currency: req.Currency,
	}
	if req.BeneficiaryID != nil {
		id, err := uuid.Parse(*req.BeneficiaryID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid beneficiary id"))
			return
		}
		input.BeneficiaryID = &id
	}

	draft, err := h.wizardSvc.SetDestination(c.Request.Context(), userID, draftID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDraftResponse(draft))
}

// SetAmount handles PUT /api/v1/transfers/drafts/:id/amount.
func (h *WizardHandler) SetAmount(c *gin.Context) {
	userID, draftID, ok := h.identify(c)
	if !ok {
		return
	}

	var req dto.SetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	draft, err := h.wizardSvc.SetAmount(c.Request.Context(), userID, draftID, ports.SetAmountInput{
		Amount:  amount,
		Version: req.Version,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDraftResponse(draft))
}

// SetMethod handles PUT /api/v1/transfers/drafts/:id/method.
func (h *WizardHandler) SetMethod(c *gin.Context) {
	userID, draftID, ok := h.identify(c)
	if !ok {
		return
	}

	var req dto.SetMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	draft, err := h.wizardSvc.SetMethod(c.Request.Context(), userID, draftID, ports.SetMethodInput{
		Method: req.Method,
		Fields: req.Fields,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDraftResponse(draft))
}

// Advance handles POST /api/v1/transfers/drafts/:id/advance.
func (h *WizardHandler) Advance(c *gin.Context) {
	userID, draftID, ok := h.identify(c)
	if !ok {
		return
	}

	draft, err := h.wizardSvc.Advance(c.Request.Context(), userID, draftID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDraftResponse(draft))
}

// Back handles POST /api/v1/transfers/drafts/:id/back.
func (h *WizardHandler) Back(c *gin.Context) {
	userID, draftID, ok := h.identify(c)
	if !ok {
		return
	}

	draft, err := h.wizardSvc.Back(c.Request.Context(), userID, draftID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDraftResponse(draft))
}

// identify extracts the caller and the draft id, writing the error response
// itself when either is missing.
func (h *WizardHandler) identify(c *gin.Context) (userID, draftID uuid.UUID, ok bool) {
	userID, ok = middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, uuid.Nil, false
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid draft id"))
		return uuid.Nil, uuid.Nil, false
	}
	return userID, draftID, true
}

// toDraftResponse converts a domain draft to its DTO. Unset amounts are
// omitted rather than rendered as "0".
func toDraftResponse(d *domain.TransferDraft) dto.DraftResponse {
	resp := dto.DraftResponse{
		ID:              d.ID.String(),
		AccountID:       d.SourceAccountID.String(),
		Step:            d.Step.String(),
		Version:         d.Version,
		DestCountry:     d.DestinationCountry,
		DestCurrency:    d.DestinationCurrency,
		BeneficiaryName: d.BeneficiaryName,
		Method:          string(d.Method),
		MethodFields:    d.MethodFields,
		UpdatedAt:       d.UpdatedAt.Format(timeFormat),
	}
	if d.BeneficiaryID != nil {
		s := d.BeneficiaryID.String()
		resp.BeneficiaryID = &s
	}
	if d.SendAmount.IsPositive() {
		resp.SendAmount = d.SendAmount.String()
		resp.FeeAmount = d.FeeAmount.String()
		resp.TotalDebit = d.TotalDebit().String()
	}
	if d.Quoted {
		resp.ExchangeRate = d.ExchangeRate.String()
		resp.ConvertedAmount = d.ConvertedAmount.String()
	}
	return resp
}
