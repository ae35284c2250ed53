package http

import (
	"net/http"
	"strings"

	"futures-signal-bot/internal/dto"
	"futures-signal-bot/internal/model"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

func (h *HttpAPIHandler) SetupWatchlist(base *echo.Group) {
	v1 := base.Group("/v1/watchlist")
	{
		v1.POST("", h.AddWatchlistItem)
		v1.DELETE("/:symbol", h.RemoveWatchlistItem)
	}
}

// AddWatchlistItem puts a symbol on the active watchlist. The next monitor
// cycle picks it up.
func (h *HttpAPIHandler) AddWatchlistItem(c echo.Context) error {
	var req dto.AddWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	item := &model.WatchlistItem{
		Symbol:   strings.ToUpper(req.Symbol),
		IsActive: true,
		Settings: datatypes.JSON(req.Settings),
	}
	if err := h.watchlistRepo.Create(c.Request().Context(), item); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("symbol added to watchlist", item))
}

// RemoveWatchlistItem deactivates a watched symbol; the row stays for audit.
func (h *HttpAPIHandler) RemoveWatchlistItem(c echo.Context) error {
	symbol := strings.ToUpper(c.Param("symbol"))

	if err := h.watchlistRepo.DeactivateBySymbol(c.Request().Context(), symbol); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("symbol removed from watchlist", nil))
}
