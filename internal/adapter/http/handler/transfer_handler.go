package handler

import (
	"time"

	"remitflow/internal/adapter/http/dto"
	"remitflow/internal/adapter/http/middleware"
	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
	"remitflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultPageSize = 20

// TransferHandler handles transfer submission and history endpoints.
type TransferHandler struct {
	transferSvc ports.TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc ports.TransferService) *TransferHandler {
	return &TransferHandler{transferSvc: transferSvc}
}

// Confirm handles POST /api/v1/transfers/drafts/:id/confirm.
func (h *TransferHandler) Confirm(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid draft id"))
		return
	}

	var req dto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	transfer, err := h.transferSvc.Confirm(c.Request.Context(), userID, ports.ConfirmRequest{
		DraftID:     draftID,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransferResponse(transfer))
}

// Get handles GET /api/v1/transfers/:id. Clients poll it until the transfer
// leaves PENDING.
func (h *TransferHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid transfer id"))
		return
	}

	transfer, err := h.transferSvc.GetByID(c.Request.Context(), userID, transferID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toTransferResponse(transfer))
}

// List handles GET /api/v1/transfers.
func (h *TransferHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var q dto.ListTransfersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	params := ports.TransferListParams{
		UserID: userID,
		Limit:  q.PageSize,
		Offset: (q.Page - 1) * q.PageSize,
	}
	if q.Status != "" {
		status := domain.TransferStatus(q.Status)
		params.Status = &status
	}
	if q.FromDate != "" {
		from, _ := time.Parse("2006-01-02", q.FromDate)
		params.FromDate = &from
	}
	if q.ToDate != "" {
		to, _ := time.Parse("2006-01-02", q.ToDate)
		to = to.Add(24*time.Hour - time.Nanosecond) // inclusive end of day
		params.ToDate = &to
	}

	transfers, total, err := h.transferSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		items = append(items, toTransferResponse(t))
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	response.OK(c, dto.TransferListResponse{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	})
}

// toTransferResponse converts domain.Transfer to its DTO.
func toTransferResponse(t *domain.Transfer) dto.TransferResponse {
	resp := dto.TransferResponse{
		ID:              t.ID.String(),
		ReferenceID:     t.ReferenceID,
		AccountID:       t.AccountID.String(),
		Status:          string(t.Status),
		DestCountry:     t.DestinationCountry,
		DestCurrency:    t.DestinationCurrency,
		SendAmount:      t.SendAmount.String(),
		FeeAmount:       t.FeeAmount.String(),
		TotalDebit:      t.SendAmount.Add(t.FeeAmount).String(),
		ExchangeRate:    t.ExchangeRate.String(),
		ConvertedAmount: t.ConvertedAmount.String(),
		Method:          string(t.Method),
		MethodFields:    t.MethodFields,
		FailureReason:   t.FailureReason,
		CreatedAt:       t.CreatedAt.Format(timeFormat),
	}
	if t.ProcessedAt != nil {
		s := t.ProcessedAt.Format(timeFormat)
		resp.ProcessedAt = &s
	}
	return resp
}
