package http

import (
	"net/http"
	"time"

	"golang-paper-trader/internal/scheduler/service"
	"golang-paper-trader/pkg/common"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"github.com/labstack/echo/v4"
)

// PhaseHandler lets operators republish a trading phase, typically to rerun
// a settlement after late price data arrives. Reruns are safe: settlement
// only touches pending orders and the daily snapshot upserts.
type PhaseHandler struct {
	schedulerService service.SchedulerService
	logger           *logger.Logger
}

// NewPhaseHandler creates a new PhaseHandler.
func NewPhaseHandler(schedulerService service.SchedulerService, logger *logger.Logger) *PhaseHandler {
	return &PhaseHandler{schedulerService: schedulerService, logger: logger}
}

// RegisterRoutes registers the phase routes to the Echo group.
func (h *PhaseHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Publish)
}

type publishPhaseRequest struct {
	Phase     string `json:"phase"`
	TradeDate string `json:"trade_date"`
}

func (h *PhaseHandler) Publish(c echo.Context) error {
	var req publishPhaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	if req.Phase != common.PhasePreMarket && req.Phase != common.PhasePostMarket {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phase must be PRE_MARKET or POST_MARKET"})
	}

	tradeDate := utils.TimeNowTaipei()
	if req.TradeDate != "" {
		parsed, err := time.Parse(utils.DateLayout, req.TradeDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid trade date"})
		}
		tradeDate = parsed
	}

	if err := h.schedulerService.PublishPhase(c.Request().Context(), req.Phase, tradeDate); err != nil {
		h.logger.Error("Failed to publish phase", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "queued"})
}
