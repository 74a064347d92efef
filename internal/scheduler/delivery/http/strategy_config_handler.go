package http

import (
	"net/http"

	"golang-paper-trader/internal/scheduler/dto"
	"golang-paper-trader/internal/scheduler/service"
	"golang-paper-trader/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StrategyConfigHandler handles HTTP requests for the strategy settings.
type StrategyConfigHandler struct {
	configService service.StrategyConfigService
	logger        *logger.Logger
}

// NewStrategyConfigHandler creates a new StrategyConfigHandler.
func NewStrategyConfigHandler(configService service.StrategyConfigService, logger *logger.Logger) *StrategyConfigHandler {
	return &StrategyConfigHandler{configService: configService, logger: logger}
}

// RegisterRoutes registers the strategy config routes to the Echo group.
func (h *StrategyConfigHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Get)
	g.PUT("", h.Update)
}

func (h *StrategyConfigHandler) Get(c echo.Context) error {
	cfg, err := h.configService.Get(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to load strategy config", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *StrategyConfigHandler) Update(c echo.Context) error {
	var req dto.UpdateStrategyConfigRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	cfg, err := h.configService.Update(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, cfg)
}
