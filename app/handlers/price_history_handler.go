package handlers

import (
	businessflow "github.com/cenovka/cenovka/business_flow"
	"github.com/gofiber/fiber/v3"
)

// PriceHistoryHandlerInterface defines the contract for price history handlers
type PriceHistoryHandlerInterface interface {
	List(c fiber.Ctx) error
}

// PriceHistoryHandler handles price-history HTTP requests
type PriceHistoryHandler struct {
	flow businessflow.PriceHistoryFlow
}

// NewPriceHistoryHandler creates a new price history handler
func NewPriceHistoryHandler(flow businessflow.PriceHistoryFlow) *PriceHistoryHandler {
	return &PriceHistoryHandler{flow: flow}
}

// Price History
// @Description Compute the full price-history listing: one row per distinct normalized product name + category across all uploads, with a time-ordered price series.
// @Tags PriceHistory
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.PriceHistoryResponse} "Price history retrieved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/price-history [get]
func (h *PriceHistoryHandler) List(c fiber.Ctx) error {
	resp, err := h.flow.BuildPriceHistory(c.Context())
	if err != nil {
		return handleFlowError(c, err)
	}
	return successResponse(c, fiber.StatusOK, resp.Message, resp)
}
