package service

import (
	"context"
	"testing"
	"time"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports/mocks"
	"remitflow/pkg/apperror"
	"remitflow/pkg/metrics"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type quoteTestDeps struct {
	svc       *QuoteServiceImpl
	provider  *mocks.MockRateProvider
	rateCache *mocks.MockRateCache
	ctrl      *gomock.Controller
}

func setupQuoteService(t *testing.T) *quoteTestDeps {
	ctrl := gomock.NewController(t)
	d := &quoteTestDeps{
		provider:  mocks.NewMockRateProvider(ctrl),
		rateCache: mocks.NewMockRateCache(ctrl),
		ctrl:      ctrl,
	}
	d.svc = NewQuoteService(d.provider, d.rateCache, time.Minute, metrics.NewCollector(), zerolog.Nop())
	return d
}

func TestQuoteService_Quote_ProviderPath(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	quote := &domain.FXQuote{
		From:      "USD",
		To:        "EUR",
		Rate:      decimal.RequireFromString("0.92"),
		FetchedAt: time.Now().UTC(),
	}

	d.rateCache.EXPECT().Get(ctx, "USD", "EUR").Return(nil, nil)
	d.provider.EXPECT().GetRate(ctx, "USD", "EUR").Return(quote, nil)
	d.rateCache.EXPECT().Set(ctx, quote, time.Minute).Return(nil)

	result, err := d.svc.Quote(ctx, "USD", "EUR", decimal.RequireFromString("500"))
	require.NoError(t, err)
	// USD commission: 2% of 500 = 10, above the 5 minimum
	assert.True(t, result.FeeAmount.Equal(decimal.RequireFromString("10")))
	assert.True(t, result.TotalDebit.Equal(decimal.RequireFromString("510")))
	assert.True(t, result.ConvertedAmount.Equal(decimal.RequireFromString("460")))
	assert.True(t, result.ExchangeRate.Equal(decimal.RequireFromString("0.92")))
}

func TestQuoteService_Quote_CacheHit(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	quote := &domain.FXQuote{
		From:      "USD",
		To:        "EUR",
		Rate:      decimal.RequireFromString("0.90"),
		FetchedAt: time.Now().UTC(),
	}

	d.rateCache.EXPECT().Get(ctx, "USD", "EUR").Return(quote, nil)

	result, err := d.svc.Quote(ctx, "USD", "EUR", decimal.RequireFromString("100"))
	require.NoError(t, err)
	assert.True(t, result.ConvertedAmount.Equal(decimal.RequireFromString("90")))
}

func TestQuoteService_Quote_FeeFloor(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.rateCache.EXPECT().Get(ctx, "USD", "EUR").Return(&domain.FXQuote{
		From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.92"),
	}, nil)

	// 2% of 10 is 0.20; the 5.00 minimum applies
	result, err := d.svc.Quote(ctx, "USD", "EUR", decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.True(t, result.FeeAmount.Equal(decimal.RequireFromString("5")))
}

func TestQuoteService_Quote_SameCurrency(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	result, err := d.svc.Quote(context.Background(), "USD", "USD", decimal.RequireFromString("250"))
	require.NoError(t, err)
	assert.True(t, result.ExchangeRate.Equal(decimal.NewFromInt(1)))
	assert.True(t, result.ConvertedAmount.Equal(decimal.RequireFromString("250")))
}

func TestQuoteService_Quote_UnsupportedCurrency(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Quote(context.Background(), "USD", "XXX", decimal.RequireFromString("100"))
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "FX_002", appErr.Code)
}

func TestQuoteService_Quote_InvalidAmount(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Quote(context.Background(), "USD", "EUR", decimal.Zero)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "XFER_002", appErr.Code)
}

func TestQuoteService_Quote_ProviderDown(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.rateCache.EXPECT().Get(ctx, "USD", "EUR").Return(nil, nil)
	d.provider.EXPECT().GetRate(ctx, "USD", "EUR").Return(nil, assert.AnError)

	_, err := d.svc.Quote(ctx, "USD", "EUR", decimal.RequireFromString("100"))
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "FX_001", appErr.Code)
	assert.Equal(t, 502, appErr.HTTPStatus)
}

func TestQuoteService_Quote_CacheErrorDegrades(t *testing.T) {
	d := setupQuoteService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	quote := &domain.FXQuote{From: "USD", To: "EUR", Rate: decimal.RequireFromString("0.92")}

	d.rateCache.EXPECT().Get(ctx, "USD", "EUR").Return(nil, assert.AnError)
	d.provider.EXPECT().GetRate(ctx, "USD", "EUR").Return(quote, nil)
	d.rateCache.EXPECT().Set(ctx, quote, time.Minute).Return(assert.AnError)

	result, err := d.svc.Quote(ctx, "USD", "EUR", decimal.RequireFromString("100"))
	require.NoError(t, err)
	assert.True(t, result.ConvertedAmount.Equal(decimal.RequireFromString("92")))
}
