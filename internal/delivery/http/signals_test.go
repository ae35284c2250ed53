package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"futures-signal-bot/config"
	"futures-signal-bot/internal/dto"
	"futures-signal-bot/internal/service"
	"futures-signal-bot/internal/signal"
	"futures-signal-bot/pkg/logger"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, cfg config.Signal) (*HttpAPIHandler, *echo.Echo) {
	t.Helper()
	e := echo.New()
	services := &service.Service{
		Evaluator: signal.NewEvaluator(cfg, logger.NewNop()),
	}
	return NewHttpAPIHandler(context.Background(), e, goValidator.New(), services, nil, nil), e
}

func defaultSignalConfig() config.Signal {
	return config.Signal{
		TriggerTimeframe: "5m",
		OIThreshold:      1.5,
		PriceThreshold:   1.3,
		VolumeThreshold:  12,
		StopLossPercent:  0.02,
		RewardRatio:      2,
	}
}

func postEvaluate(t *testing.T, h *HttpAPIHandler, e *echo.Echo, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/signals/evaluate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.EvaluateSignal(c))
	return rec
}

func TestEvaluateSignal_NoSignal(t *testing.T) {
	h, e := newTestHandler(t, defaultSignalConfig())

	rec := postEvaluate(t, h, e, `{
		"symbol": "HFTUSDT",
		"current_price": 100,
		"oi_changes": {"5m": -2.0, "15m": -1.0},
		"price_changes": {"5m": -1.0},
		"volume_changes": {"5m": null}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "no signal", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestEvaluateSignal_Trigger(t *testing.T) {
	cfg := defaultSignalConfig()
	cfg.OIThreshold = -1.5
	cfg.PriceThreshold = -1.3
	h, e := newTestHandler(t, cfg)

	rec := postEvaluate(t, h, e, `{
		"symbol": "HFTUSDT",
		"current_price": 100,
		"oi_changes": {"5m": -1.0},
		"price_changes": {"5m": -1.0},
		"volume_changes": {"5m": -1.0}
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Code    int                `json:"code"`
		Message string             `json:"message"`
		Data    dto.SignalResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "signal triggered", resp.Message)
	assert.Equal(t, "HFTUSDT", resp.Data.Symbol)
	assert.InDelta(t, 100.0, resp.Data.Entry, 1e-9)
	assert.InDelta(t, 98.0, resp.Data.StopLoss, 1e-9)
	assert.InDelta(t, 104.0, resp.Data.TakeProfits[0], 1e-9)
	assert.Equal(t, resp.Data.TakeProfits[0], resp.Data.TakeProfits[2])
}

func TestEvaluateSignal_RejectsNonPositivePrice(t *testing.T) {
	h, e := newTestHandler(t, defaultSignalConfig())

	rec := postEvaluate(t, h, e, `{
		"symbol": "HFTUSDT",
		"current_price": 0,
		"oi_changes": {"5m": -1.0}
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateSignal_RejectsMissingSymbol(t *testing.T) {
	h, e := newTestHandler(t, defaultSignalConfig())

	rec := postEvaluate(t, h, e, `{"current_price": 100}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
