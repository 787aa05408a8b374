package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"remitflow/internal/core/domain"
	"remitflow/internal/core/ports"
	"remitflow/pkg/apperror"
	"remitflow/pkg/metrics"
)

// QuoteServiceImpl implements ports.QuoteService. Rates come from the cache
// when fresh, otherwise from the upstream provider.
type QuoteServiceImpl struct {
	provider  ports.RateProvider
	rateCache ports.RateCache
	cacheTTL  time.Duration
	metrics   *metrics.Collector
	log       zerolog.Logger
}

func NewQuoteService(
	provider ports.RateProvider,
	rateCache ports.RateCache,
	cacheTTL time.Duration,
	collector *metrics.Collector,
	log zerolog.Logger,
) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		provider:  provider,
		rateCache: rateCache,
		cacheTTL:  cacheTTL,
		metrics:   collector,
		log:       log,
	}
}

// Quote prices a transfer: fee on the source side, then conversion of the
// send amount at the fetched rate. The fee is never converted.
func (s *QuoteServiceImpl) Quote(ctx context.Context, from, to string, amount decimal.Decimal) (*ports.QuoteResult, error) {
	if !domain.IsSupportedCurrency(from) {
		return nil, apperror.ErrUnsupportedCurrency(from)
	}
	if !domain.IsSupportedCurrency(to) {
		return nil, apperror.ErrUnsupportedCurrency(to)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperror.ErrInvalidAmount()
	}

	quote, err := s.lookupRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	fee := domain.ComputeFee(amount, domain.CommissionFor(from))

	return &ports.QuoteResult{
		SendAmount:      amount,
		FeeAmount:       fee,
		TotalDebit:      amount.Add(fee),
		ExchangeRate:    quote.Rate,
		ConvertedAmount: quote.Convert(amount),
		SourceCurrency:  from,
		TargetCurrency:  to,
		QuotedAt:        quote.FetchedAt,
	}, nil
}

func (s *QuoteServiceImpl) lookupRate(ctx context.Context, from, to string) (*domain.FXQuote, error) {
	if from == to {
		return &domain.FXQuote{
			From:      from,
			To:        to,
			Rate:      decimal.NewFromInt(1),
			FetchedAt: time.Now().UTC(),
		}, nil
	}

	start := time.Now()

	cached, err := s.rateCache.Get(ctx, from, to)
	if err != nil {
		// Cache trouble must not block quoting
		s.log.Warn().Err(err).Msg("rate cache read failed")
	}
	if cached != nil {
		s.metrics.RecordFXLookup("cache_hit", time.Since(start))
		return cached, nil
	}

	quote, err := s.provider.GetRate(ctx, from, to)
	if err != nil {
		s.metrics.RecordFXLookup("error", time.Since(start))
		return nil, apperror.ErrRateUnavailable(err)
	}
	s.metrics.RecordFXLookup("provider", time.Since(start))

	if err := s.rateCache.Set(ctx, quote, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Msg("rate cache write failed")
	}

	return quote, nil
}
