package service

import (
	"strings"

	"remitflow/internal/core/domain"
	"remitflow/pkg/apperror"
)

// DirectoryServiceImpl implements ports.DirectoryService over the static
// currency catalog and method schemas.
type DirectoryServiceImpl struct{}

func NewDirectoryService() *DirectoryServiceImpl {
	return &DirectoryServiceImpl{}
}

func (s *DirectoryServiceImpl) Currencies() []domain.Currency {
	return domain.SupportedCurrencies()
}

// MethodsFor returns the schemas of the rails serving a destination
// currency. The corridor fixes the rail, so the list holds one entry.
func (s *DirectoryServiceImpl) MethodsFor(currency string) ([]domain.MethodSchema, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !domain.IsSupportedCurrency(currency) {
		return nil, apperror.ErrUnsupportedCurrency(currency)
	}

	methods := domain.AvailableMethods(currency)
	if len(methods) == 0 {
		return nil, apperror.ErrMethodUnavailable(currency)
	}

	schemas := make([]domain.MethodSchema, 0, len(methods))
	for _, m := range methods {
		if schema := domain.SchemaFor(m); schema != nil {
			schemas = append(schemas, *schema)
		}
	}
	if len(schemas) == 0 {
		return nil, apperror.ErrMethodUnavailable(currency)
	}
	return schemas, nil
}
