package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"futures-signal-bot/config"
	"futures-signal-bot/internal/dto"
	"futures-signal-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBinanceRepo(t *testing.T, handler http.Handler) BinanceRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		Binance: config.Binance{
			BaseURL:             server.URL,
			Timeout:             5 * time.Second,
			MaxRequestPerMinute: 60000,
		},
	}
	return NewBinanceRepository(cfg, logger.NewNop())
}

func TestGetOpenInterestChange(t *testing.T) {
	repo := newTestBinanceRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/futures/data/openInterestHist", r.URL.Path)
		assert.Equal(t, "HFTUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "5m", r.URL.Query().Get("period"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		rows := []dto.OpenInterestHist{
			{Symbol: "HFTUSDT", SumOpenInterest: "1000", Timestamp: 1},
			{Symbol: "HFTUSDT", SumOpenInterest: "1050", Timestamp: 2},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))

	change, err := repo.GetOpenInterestChange(context.Background(), "HFTUSDT", "5m")
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.InDelta(t, 5.0, *change, 1e-9)
}

func TestGetOpenInterestChange_InsufficientHistory(t *testing.T) {
	repo := newTestBinanceRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := []dto.OpenInterestHist{
			{Symbol: "NEWUSDT", SumOpenInterest: "1000", Timestamp: 1},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))

	change, err := repo.GetOpenInterestChange(context.Background(), "NEWUSDT", "5m")
	require.NoError(t, err)
	assert.Nil(t, change)
}

func TestGetOpenInterestChange_NonOKStatus(t *testing.T) {
	repo := newTestBinanceRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))

	change, err := repo.GetOpenInterestChange(context.Background(), "NOPE", "5m")
	require.Error(t, err)
	assert.Nil(t, change)
	assert.Contains(t, err.Error(), "binance api returned status: 400")
}

func TestGetTicker24h(t *testing.T) {
	repo := newTestBinanceRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/ticker/24hr", r.URL.Path)
		assert.Equal(t, "HFTUSDT", r.URL.Query().Get("symbol"))

		ticker := dto.Ticker24h{
			Symbol:             "HFTUSDT",
			LastPrice:          "0.3521",
			PriceChangePercent: "-2.145",
			Volume:             "1234567.8",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ticker)
	}))

	snapshot, err := repo.GetTicker24h(context.Background(), "HFTUSDT")
	require.NoError(t, err)
	assert.Equal(t, "HFTUSDT", snapshot.Symbol)
	assert.InDelta(t, 0.3521, snapshot.LastPrice, 1e-9)
	assert.InDelta(t, -2.145, snapshot.PriceChangePercent, 1e-9)
	assert.InDelta(t, 1234567.8, snapshot.Volume, 1e-9)
}

func TestGetFundingRate(t *testing.T) {
	repo := newTestBinanceRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/fundingRate", r.URL.Path)

		rows := []dto.FundingRate{
			{Symbol: "HFTUSDT", FundingRate: "0.0001", FundingTime: 1},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	}))

	rate, err := repo.GetFundingRate(context.Background(), "HFTUSDT")
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.InDelta(t, 0.01, *rate, 1e-9)
}

func TestGetFundingRate_Empty(t *testing.T) {
	repo := newTestBinanceRepo(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))

	rate, err := repo.GetFundingRate(context.Background(), "HFTUSDT")
	require.NoError(t, err)
	assert.Nil(t, rate)
}
