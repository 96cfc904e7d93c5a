package handler

import (
	"github.com/gin-gonic/gin"

	appinv "github.com/growbro/backend/internal/application/inventory"
	"github.com/growbro/backend/internal/domain/inventory"
	"github.com/growbro/backend/internal/interfaces/http/dto"
)

// CatalogHandler exposes the item catalog over HTTP
type CatalogHandler struct {
	BaseHandler
	catalog *appinv.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *appinv.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers catalog routes on the given group
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.PATCH("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
	}
	rg.GET("/barcode/:code", h.GetByBarcode)
}

// Create handles POST /items
func (h *CatalogHandler) Create(c *gin.Context) {
	var req appinv.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// List handles GET /items
func (h *CatalogHandler) List(c *gin.Context) {
	var list dto.ListRequest
	if err := c.ShouldBindQuery(&list); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	list.Normalize()

	filter := inventory.ItemFilter{
		Category: c.Query("category"),
		Search:   list.Search,
		Limit:    list.PageSize,
		Offset:   list.Offset(),
	}
	items, total, err := h.catalog.ListItems(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, list.Page, list.PageSize)
}

// Get handles GET /items/:id
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetByBarcode handles GET /barcode/:code
func (h *CatalogHandler) GetByBarcode(c *gin.Context) {
	item, err := h.catalog.GetItemByBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update handles PATCH /items/:id
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req appinv.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.catalog.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete handles DELETE /items/:id
func (h *CatalogHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalog.DeleteItem(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
