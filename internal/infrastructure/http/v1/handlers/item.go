package handlers

import (
	"github.com/gin-gonic/gin"

	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/infrastructure/http/v1/dto"
)

// ItemHandler exposes the item catalog.
type ItemHandler struct {
	*BaseHandler
	service *item.Service
}

// NewItemHandler creates an item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	return &ItemHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts item endpoints on rg.
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/retire", h.Retire)
	rg.DELETE("/:id", h.Delete)
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it := item.New(req.Code, req.Name)
	it.Category = req.Category
	if req.UnitOfMeasure != "" {
		it.UnitOfMeasure = req.UnitOfMeasure
	}
	it.MinimumStock = req.MinimumStock
	it.MaximumStock = req.MaximumStock
	it.ReorderLevel = req.ReorderLevel

	if err := h.service.Create(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, it.ID.String())
}

func (h *ItemHandler) GetByID(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

func (h *ItemHandler) Update(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	it.Name = req.Name
	it.Category = req.Category
	if req.UnitOfMeasure != "" {
		it.UnitOfMeasure = req.UnitOfMeasure
	}
	it.MinimumStock = req.MinimumStock
	it.MaximumStock = req.MaximumStock
	it.ReorderLevel = req.ReorderLevel
	if req.IsActive != nil {
		it.IsActive = *req.IsActive
	}

	if err := h.service.Update(c.Request.Context(), it); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, it)
}

// Retire deactivates the item without touching its ledger history.
func (h *ItemHandler) Retire(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Retire(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "item retired")
}

func (h *ItemHandler) Delete(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), itemID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ItemHandler) List(c *gin.Context) {
	var q dto.ItemListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.service.List(c.Request.Context(), item.ListFilter{
		Search:         q.Search,
		Category:       q.Category,
		ActiveOnly:     q.ActiveOnly,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}
