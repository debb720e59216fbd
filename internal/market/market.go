// Package market fetches the Bitcoin spot price and the S&P 500 trend used
// to flavor the finance prompts. Market data is decorative: failures degrade
// to "N/A" and "neutral" rather than erroring.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wealthealphaglobal/astrofinance-auto/internal/config"
)

// Trend labels fed into the finance prompt.
const (
	TrendBullish = "bullish"
	TrendBearish = "bearish"
	TrendNeutral = "neutral"
)

// Client fetches the market snapshot once per run; every sign shares it.
type Client struct {
	HTTPClient *http.Client
	BitcoinURL string
	ChartURL   string
	Logger     *log.Logger
}

// Data is the snapshot handed to prompt expansion.
type Data struct {
	BTCPrice float64 `json:"btc_price"`
	HasBTC   bool    `json:"has_btc"`
	Trend    string  `json:"trend"`
}

// PromptPrice renders the price for prompt substitution, "N/A" when the
// fetch failed.
func (d Data) PromptPrice() string {
	if !d.HasBTC {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", d.BTCPrice)
}

// New builds a client from the market settings.
func New(cfg config.MarketSettings, logger *log.Logger) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
		BitcoinURL: cfg.BitcoinURL,
		ChartURL:   cfg.ChartURL,
		Logger:     logger,
	}
}

// Snapshot fetches both feeds in parallel. It never fails: a missing price
// reports HasBTC false and a broken chart feed reports TrendNeutral.
func (c *Client) Snapshot(ctx context.Context) Data {
	data := Data{Trend: TrendNeutral}

	var g errgroup.Group
	g.Go(func() error {
		price, err := c.bitcoinPrice(ctx)
		if err != nil {
			c.logf("market: bitcoin price: %v", err)
			return nil
		}
		data.BTCPrice = price
		data.HasBTC = true
		return nil
	})
	g.Go(func() error {
		trend, err := c.trend(ctx)
		if err != nil {
			c.logf("market: trend: %v", err)
			return nil
		}
		data.Trend = trend
		return nil
	})
	_ = g.Wait()

	return data
}

type bpiResponse struct {
	BPI struct {
		USD struct {
			RateFloat float64 `json:"rate_float"`
		} `json:"USD"`
	} `json:"bpi"`
}

func (c *Client) bitcoinPrice(ctx context.Context) (float64, error) {
	body, err := c.get(ctx, c.BitcoinURL)
	if err != nil {
		return 0, err
	}

	var out bpiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("parse bitcoin response: %w", err)
	}
	if out.BPI.USD.RateFloat == 0 {
		return 0, fmt.Errorf("bitcoin response missing rate_float")
	}

	return out.BPI.USD.RateFloat, nil
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

func (c *Client) trend(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.ChartURL)
	if err != nil {
		return "", err
	}

	var out chartResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse chart response: %w", err)
	}
	if len(out.Chart.Result) == 0 {
		return "", fmt.Errorf("chart response has no results")
	}

	meta := out.Chart.Result[0].Meta
	if meta.PreviousClose == 0 {
		return "", fmt.Errorf("chart response missing previous close")
	}

	change := (meta.RegularMarketPrice - meta.PreviousClose) / meta.PreviousClose * 100
	if change > 0 {
		return TrendBullish, nil
	}
	return TrendBearish, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
