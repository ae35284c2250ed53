package http

import (
	"context"

	"futures-signal-bot/internal/repository"
	"futures-signal-bot/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo           *echo.Echo
	validator      *goValidator.Validate
	service        *service.Service
	subscriberRepo repository.SubscriberRepository
	watchlistRepo  repository.WatchlistRepository
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service, subscriberRepo repository.SubscriberRepository, watchlistRepo repository.WatchlistRepository) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:           echo,
		validator:      validator,
		service:        service,
		subscriberRepo: subscriberRepo,
		watchlistRepo:  watchlistRepo,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupStatus(base)
	h.SetupSignals(base)
	h.SetupWatchlist(base)
}
