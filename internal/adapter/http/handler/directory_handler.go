package handler

import (
	"strings"

	"remitflow/internal/adapter/http/dto"
	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
	"remitflow/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// DirectoryHandler handles reference-data and pricing endpoints.
type DirectoryHandler struct {
	directorySvc ports.DirectoryService
	quoteSvc     ports.QuoteService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directorySvc ports.DirectoryService, quoteSvc ports.QuoteService) *DirectoryHandler {
	return &DirectoryHandler{directorySvc: directorySvc, quoteSvc: quoteSvc}
}

// Currencies handles GET /api/v1/currencies.
func (h *DirectoryHandler) Currencies(c *gin.Context) {
	currencies := h.directorySvc.Currencies()

	items := make([]dto.CurrencyResponse, 0, len(currencies))
	for _, cur := range currencies {
		items = append(items, dto.CurrencyResponse{
			Code:     cur.Code,
			Name:     cur.Name,
			Country:  cur.Country,
			Featured: cur.Featured,
		})
	}
	response.OK(c, items)
}

// Methods handles GET /api/v1/transfers/methods?currency=.
func (h *DirectoryHandler) Methods(c *gin.Context) {
	currency := strings.ToUpper(strings.TrimSpace(c.Query("currency")))
	if currency == "" {
		response.Error(c, apperror.Validation("currency query parameter is required"))
		return
	}

	schemas, err := h.directorySvc.MethodsFor(currency)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.MethodSchemaResponse, 0, len(schemas))
	for _, s := range schemas {
		items = append(items, toMethodSchemaResponse(s))
	}
	response.OK(c, items)
}

// Quote handles GET /api/v1/quotes?from=&to=&amount=. It prices a transfer
// without opening a draft.
func (h *DirectoryHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	result, err := h.quoteSvc.Quote(c.Request.Context(), strings.ToUpper(req.From), strings.ToUpper(req.To), amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.QuoteResponse{
		SendAmount:      result.SendAmount.String(),
		FeeAmount:       result.FeeAmount.String(),
		TotalDebit:      result.TotalDebit.String(),
		ExchangeRate:    result.ExchangeRate.String(),
		ConvertedAmount: result.ConvertedAmount.String(),
		SourceCurrency:  result.SourceCurrency,
		TargetCurrency:  result.TargetCurrency,
		QuotedAt:        result.QuotedAt.Format(timeFormat),
	})
}

func toMethodSchemaResponse(s domain.MethodSchema) dto.MethodSchemaResponse {
	fields := make([]dto.MethodFieldResponse, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, dto.MethodFieldResponse{
			Name:     f.Name,
			Label:    f.Label,
			Type:     string(f.Type),
			Required: f.Required,
			Options:  f.Options,
		})
	}
	return dto.MethodSchemaResponse{
		Method: string(s.Method),
		Label:  s.Label,
		Fields: fields,
	}
}
