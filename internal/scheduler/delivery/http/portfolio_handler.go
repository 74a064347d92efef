package http

import (
	"net/http"
	"strconv"
	"time"

	"golang-paper-trader/internal/scheduler/service"
	"golang-paper-trader/pkg/logger"
	"golang-paper-trader/pkg/utils"

	"github.com/labstack/echo/v4"
)

// PortfolioHandler handles HTTP requests for portfolio views.
type PortfolioHandler struct {
	portfolioService service.PortfolioService
	logger           *logger.Logger
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService service.PortfolioService, logger *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, logger: logger}
}

// RegisterRoutes registers the portfolio routes to the Echo group.
func (h *PortfolioHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/summary", h.GetSummary)
	g.GET("/positions", h.GetPositions)
	g.GET("/orders", h.GetOrders)
	g.GET("/transactions", h.GetTransactions)
	g.GET("/assets", h.GetAssets)
}

func (h *PortfolioHandler) GetSummary(c echo.Context) error {
	summary, err := h.portfolioService.GetSummary(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to build portfolio summary", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *PortfolioHandler) GetPositions(c echo.Context) error {
	positions, err := h.portfolioService.GetPositions(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list positions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *PortfolioHandler) GetOrders(c echo.Context) error {
	limit, offset := paging(c)
	orders, err := h.portfolioService.GetOrders(c.Request().Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list orders", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *PortfolioHandler) GetTransactions(c echo.Context) error {
	limit, offset := paging(c)
	transactions, err := h.portfolioService.GetTransactions(c.Request().Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, transactions)
}

func (h *PortfolioHandler) GetAssets(c echo.Context) error {
	var from, to time.Time
	if v := c.QueryParam("from"); v != "" {
		parsed, err := time.Parse(utils.DateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid 'from' date"})
		}
		from = parsed
	}
	if v := c.QueryParam("to"); v != "" {
		parsed, err := time.Parse(utils.DateLayout, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid 'to' date"})
		}
		to = parsed
	}

	assets, err := h.portfolioService.GetAssets(c.Request().Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to list asset snapshots", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, assets)
}

func paging(c echo.Context) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
