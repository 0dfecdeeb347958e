package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"turbostock/internal/domain/stock"
	"turbostock/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes the reconciled stock views and the repair procedures.
type StockHandler struct {
	*BaseHandler
	reconciler   *stock.Reconciler
	availability *stock.Availability
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, reconciler *stock.Reconciler, availability *stock.Availability) *StockHandler {
	return &StockHandler{
		BaseHandler:  base,
		reconciler:   reconciler,
		availability: availability,
	}
}

// RegisterRoutes mounts stock endpoints on rg.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/overview", h.Overview)
	rg.GET("/items/:id", h.ItemSummary)
	rg.GET("/items/:id/analysis", h.ItemAnalysis)
	rg.GET("/items/:id/drift", h.ItemDrift)

	rg.GET("/availability", h.Availability)
	rg.GET("/availability/check", h.CheckStock)

	rg.POST("/recalculate", h.RecalculateAll)
	rg.POST("/recalculate/:id", h.RecalculateItem)
	rg.POST("/reset", h.Reset)
}

// Overview returns the reconciled summary of every active item plus
// data-quality warnings.
func (h *StockHandler) Overview(c *gin.Context) {
	overview, err := h.reconciler.AllSummaries(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, overview)
}

func (h *StockHandler) ItemSummary(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.reconciler.SummaryForItem(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// ItemAnalysis returns the transaction-level profit breakdown for one item.
func (h *StockHandler) ItemAnalysis(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	analysis, err := h.reconciler.ItemProfitAnalysis(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, analysis)
}

// ItemDrift compares cached figures against a fresh recomputation.
func (h *StockHandler) ItemDrift(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	drift, err := h.reconciler.DebugItemStock(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, drift)
}

// Availability lists sellable names with remaining stock. ?all=true includes
// zero and negative rows for diagnostics.
func (h *StockHandler) Availability(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		items []stock.AvailableItem
		err   error
	)
	if c.Query("all") == "true" {
		items, err = h.availability.AllItems(ctx)
	} else {
		items, err = h.availability.Items(ctx)
	}
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

func (h *StockHandler) CheckStock(c *gin.Context) {
	var q dto.StockCheckQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.availability.CheckItemStock(c.Request.Context(), q.ItemName, q.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// RecalculateAll rebuilds every cached summary. Per-item failures produce a
// 207 with the failure map instead of aborting the batch.
func (h *StockHandler) RecalculateAll(c *gin.Context) {
	report, err := h.reconciler.RecalculateAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	if len(report.Failed) > 0 {
		c.JSON(http.StatusMultiStatus, report)
		return
	}
	h.OK(c, report)
}

func (h *StockHandler) RecalculateItem(c *gin.Context) {
	itemID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	summary, err := h.reconciler.RecalculateItemStock(c.Request.Context(), itemID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summary)
}

// Reset clears the summary cache and rebuilds it from the ledgers.
func (h *StockHandler) Reset(c *gin.Context) {
	report, err := h.reconciler.ResetAllStockData(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	if len(report.Failed) > 0 {
		c.JSON(http.StatusMultiStatus, report)
		return
	}
	h.OK(c, report)
}
