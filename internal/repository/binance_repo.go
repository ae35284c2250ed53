package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"futures-signal-bot/config"
	"futures-signal-bot/internal/dto"
	"futures-signal-bot/pkg/httpclient"
	"futures-signal-bot/pkg/logger"

	"golang.org/x/time/rate"
)

// BinanceRepository talks to the Binance futures REST API. A nil change from
// GetOpenInterestChange means the exchange did not have enough history, which
// downstream treats as a missing value, not an error.
type BinanceRepository interface {
	GetOpenInterestChange(ctx context.Context, symbol, period string) (*float64, error)
	GetTicker24h(ctx context.Context, symbol string) (*dto.TickerSnapshot, error)
	GetFundingRate(ctx context.Context, symbol string) (*float64, error)
}

type binanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

func NewBinanceRepository(cfg *config.Config, log *logger.Logger) BinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Binance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &binanceRepository{
		httpClient:     httpclient.New(cfg.Binance.BaseURL, cfg.Binance.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

func (r *binanceRepository) GetOpenInterestChange(ctx context.Context, symbol, period string) (*float64, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/futures/data/openInterestHist"
	queryParams := map[string]string{
		"symbol": symbol,
		"period": period,
		// the change needs the last two data points
		"limit": "2",
	}

	var rows []dto.OpenInterestHist
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open interest from binance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Binance API returned Non-OK status for open interest",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	if len(rows) < 2 {
		return nil, nil
	}

	last, err := strconv.ParseFloat(rows[len(rows)-1].SumOpenInterest, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse open interest from binance: %w", err)
	}
	prev, err := strconv.ParseFloat(rows[len(rows)-2].SumOpenInterest, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse open interest from binance: %w", err)
	}
	if prev == 0 {
		return nil, nil
	}

	change := (last - prev) / prev * 100
	return &change, nil
}

func (r *binanceRepository) GetTicker24h(ctx context.Context, symbol string) (*dto.TickerSnapshot, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/fapi/v1/ticker/24hr"
	queryParams := map[string]string{
		"symbol": symbol,
	}

	var ticker dto.Ticker24h
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticker from binance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Binance API returned Non-OK status for ticker",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	lastPrice, err := strconv.ParseFloat(ticker.LastPrice, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last price from binance: %w", err)
	}
	priceChange, err := strconv.ParseFloat(ticker.PriceChangePercent, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price change from binance: %w", err)
	}
	volume, err := strconv.ParseFloat(ticker.Volume, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse volume from binance: %w", err)
	}

	return &dto.TickerSnapshot{
		Symbol:             symbol,
		LastPrice:          lastPrice,
		PriceChangePercent: priceChange,
		Volume:             volume,
	}, nil
}

func (r *binanceRepository) GetFundingRate(ctx context.Context, symbol string) (*float64, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/fapi/v1/fundingRate"
	queryParams := map[string]string{
		"symbol": symbol,
		"limit":  "1",
	}

	var rows []dto.FundingRate
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, nil, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch funding rate from binance: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Binance API returned Non-OK status for funding rate",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("binance api returned status: %d", resp.StatusCode)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	rateValue, err := strconv.ParseFloat(rows[0].FundingRate, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse funding rate from binance: %w", err)
	}

	percent := rateValue * 100
	return &percent, nil
}
