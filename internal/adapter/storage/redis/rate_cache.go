package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"remitflow/internal/core/domain"
)

// RateCache caches exchange-rate quotes per currency pair so bursts of
// quoting traffic do not hammer the upstream provider.
type RateCache struct {
	client *redis.Client
}

func NewRateCache(client *redis.Client) *RateCache {
	return &RateCache{client: client}
}

func rateKey(from, to string) string {
	return "fxrate:" + from + ":" + to
}

func (c *RateCache) Get(ctx context.Context, from, to string) (*domain.FXQuote, error) {
	data, err := c.client.Get(ctx, rateKey(from, to)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached rate: %w", err)
	}

	var quote domain.FXQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, fmt.Errorf("unmarshal cached rate: %w", err)
	}
	return &quote, nil
}

func (c *RateCache) Set(ctx context.Context, quote *domain.FXQuote, ttl time.Duration) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal rate: %w", err)
	}

	if err := c.client.Set(ctx, rateKey(quote.From, quote.To), data, ttl).Err(); err != nil {
		return fmt.Errorf("cache rate: %w", err)
	}
	return nil
}
