package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"remitflow/config"
	"remitflow/internal/core/domain"
)

// Client fetches live exchange rates from the upstream rate provider.
// It implements ports.RateProvider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg config.FXConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type convertResponse struct {
	Success bool `json:"success"`
	Info    struct {
		Rate json.Number `json:"rate"`
	} `json:"info"`
	Result json.Number `json:"result"`
}

// GetRate fetches the rate for one unit of the source currency.
func (c *Client) GetRate(ctx context.Context, from, to string) (*domain.FXQuote, error) {
	endpoint := fmt.Sprintf("%s/convert", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build rate request: %w", err)
	}

	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", "1")
	if c.apiKey != "" {
		q.Set("access_key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rate %s/%s: %w", from, to, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var parsed convertResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode rate response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("rate provider reported failure for %s/%s", from, to)
	}

	raw := parsed.Info.Rate
	if raw == "" {
		raw = parsed.Result
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return nil, fmt.Errorf("parse rate %q: %w", raw, err)
	}
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("rate provider returned non-positive rate %s for %s/%s", rate, from, to)
	}

	c.log.Debug().
		Str("from", from).
		Str("to", to).
		Str("rate", rate.String()).
		Dur("latency", time.Since(start)).
		Msg("fetched exchange rate")

	return &domain.FXQuote{
		From:      from,
		To:        to,
		Rate:      rate,
		FetchedAt: time.Now().UTC(),
	}, nil
}
