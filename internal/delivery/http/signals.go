package http

import (
	"errors"
	"net/http"

	"futures-signal-bot/internal/dto"
	"futures-signal-bot/internal/signal"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSignals(base *echo.Group) {
	v1 := base.Group("/v1/signals")
	{
		v1.POST("/evaluate", h.EvaluateSignal)
		v1.POST("/run", h.RunMonitorCycle)
	}
}

// EvaluateSignal runs the evaluator on a caller-supplied snapshot, without
// touching live market data. Useful for inspecting the decision on recorded
// inputs.
func (h *HttpAPIHandler) EvaluateSignal(c echo.Context) error {
	var req dto.EvaluateSignalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	sig, err := h.service.Evaluator.Evaluate(c.Request().Context(), signal.Input{
		Symbol:        req.Symbol,
		CurrentPrice:  req.CurrentPrice,
		OIChanges:     req.OIChanges,
		PriceChanges:  req.PriceChanges,
		VolumeChanges: req.VolumeChanges,
	})
	if err != nil {
		if errors.Is(err, signal.ErrNonPositivePrice) || errors.Is(err, signal.ErrMalformedChange) {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	if sig == nil {
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("no signal", nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("signal triggered", dto.SignalResponse{
		Symbol:      sig.Symbol,
		Entry:       sig.Entry,
		StopLoss:    sig.StopLoss,
		TakeProfits: sig.TakeProfits,
	}))
}

// RunMonitorCycle triggers one monitor cycle outside the cron cadence.
func (h *HttpAPIHandler) RunMonitorCycle(c echo.Context) error {
	response := dto.NewBaseResponse(http.StatusOK, "Monitor cycle started", nil)
	if err := h.service.MonitorService.RunCycle(c.Request().Context()); err != nil {
		response.Code = http.StatusInternalServerError
		response.Message = err.Error()
	}
	return c.JSON(response.Code, response)
}
