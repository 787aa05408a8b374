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
)

// BeneficiaryHandler handles saved recipient endpoints.
type BeneficiaryHandler struct {
	beneficiarySvc ports.BeneficiaryService
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler.
func NewBeneficiaryHandler(beneficiarySvc ports.BeneficiaryService) *BeneficiaryHandler {
	return &BeneficiaryHandler{beneficiarySvc: beneficiarySvc}
}

// Create handles POST /api/v1/beneficiaries.
func (h *BeneficiaryHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateBeneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	b, err := h.beneficiarySvc.Create(c.Request.Context(), userID, ports.CreateBeneficiaryRequest{
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		Country:       req.Country,
		Currency:      req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toBeneficiaryResponse(b))
}

// Get handles GET /api/v1/beneficiaries/:id.
func (h *BeneficiaryHandler) Get(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid beneficiary id"))
		return
	}

	b, err := h.beneficiarySvc.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toBeneficiaryResponse(b))
}

// List handles GET /api/v1/beneficiaries.
func (h *BeneficiaryHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	list, err := h.beneficiarySvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.BeneficiaryResponse, 0, len(list))
	for _, b := range list {
		items = append(items, toBeneficiaryResponse(b))
	}
	response.OK(c, items)
}

// Delete handles DELETE /api/v1/beneficiaries/:id.
func (h *BeneficiaryHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid beneficiary id"))
		return
	}

	if err := h.beneficiarySvc.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func toBeneficiaryResponse(b *domain.Beneficiary) dto.BeneficiaryResponse {
	return dto.BeneficiaryResponse{
		ID:            b.ID.String(),
		Name:          b.Name,
		AccountNumber: b.AccountNumber,
		Country:       b.Country,
		Currency:      b.Currency,
		CreatedAt:     b.CreatedAt.Format(timeFormat),
	}
}
