package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinv "github.com/growbro/backend/internal/application/inventory"
	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/infrastructure/config"
	"github.com/growbro/backend/internal/interfaces/http/dto"
)

// StockHandler exposes stock operations and projections over HTTP
type StockHandler struct {
	BaseHandler
	stock      *appinv.StockService
	projection *appinv.ProjectionService
	reorder    *appinv.ReorderService
	expiry     config.ExpiryConfig
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stock *appinv.StockService, projection *appinv.ProjectionService, reorder *appinv.ReorderService, expiry config.ExpiryConfig) *StockHandler {
	return &StockHandler{stock: stock, projection: projection, reorder: reorder, expiry: expiry}
}

// RegisterRoutes registers stock routes on the given group
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/receive", h.Receive)
		stock.POST("/consume", h.Consume)
		stock.POST("/adjust", h.Adjust)
		stock.GET("/expiring", h.Expiring)
	}
	rg.GET("/items/:id/stock", h.Level)
	rg.GET("/items/:id/batches", h.Breakdown)
	rg.GET("/movements", h.Movements)
	rg.GET("/reorder-candidates", h.ReorderCandidates)
}

// Receive handles POST /stock/receive
func (h *StockHandler) Receive(c *gin.Context) {
	var req appinv.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.stock.Receive(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Replayed {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// Consume handles POST /stock/consume
func (h *StockHandler) Consume(c *gin.Context) {
	var req appinv.ConsumeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.stock.Consume(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Adjust handles POST /stock/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	var req appinv.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.stock.Adjust(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Level handles GET /items/:id/stock
func (h *StockHandler) Level(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	level, err := h.projection.StockLevel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, level)
}

// Breakdown handles GET /items/:id/batches
func (h *StockHandler) Breakdown(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	breakdown, err := h.projection.StockBreakdown(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}

// Movements handles GET /movements
func (h *StockHandler) Movements(c *gin.Context) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	list.Normalize()

	filter := inventory.MovementFilter{
		Limit:  list.PageSize,
		Offset: list.Offset(),
	}
	if raw := c.Query("item_id"); raw != "" {
		itemID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "invalid item_id")
			return
		}
		filter.ItemID = &itemID
	}
	if raw := c.Query("type"); raw != "" {
		movementType := inventory.MovementType(raw)
		if !movementType.IsValid() {
			h.BadRequest(c, "invalid movement type")
			return
		}
		filter.Type = &movementType
	}

	movements, total, err := h.projection.Movements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, list.Page, list.PageSize)
}

// Expiring handles GET /stock/expiring
func (h *StockHandler) Expiring(c *gin.Context) {
	window := h.expiry.WarnWindow
	if raw := c.Query("within"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			h.BadRequest(c, "invalid within duration")
			return
		}
		window = parsed
	}

	batches, err := h.projection.ExpiringBatches(c.Request.Context(), window, h.expiry.QueryLimit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// ReorderCandidates handles GET /reorder-candidates
func (h *StockHandler) ReorderCandidates(c *gin.Context) {
	candidates, err := h.reorder.Candidates(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, candidates)
}
