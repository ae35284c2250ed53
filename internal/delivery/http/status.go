package http

import (
	"net/http"
	"time"

	"futures-signal-bot/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupStatus(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/status", h.GetStatus)
	}
}

func (h *HttpAPIHandler) GetStatus(c echo.Context) error {
	ctx := c.Request().Context()

	subscriberCount, err := h.subscriberRepo.CountActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	status := dto.StatusResponse{
		Status:          "Bot is running",
		Symbols:         h.service.MonitorService.Symbols(ctx),
		SubscriberCount: subscriberCount,
		UptimeSeconds:   int64(time.Since(h.service.StartedAt) / time.Second),
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("OK", status))
}
