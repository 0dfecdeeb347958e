package handlers

import (
	"github.com/gin-gonic/gin"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler exposes purchase documents.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts purchase endpoints on rg.
func (h *PurchaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// parseLine converts a DTO line into its id, quantity and unit amount.
func parseLine(l dto.DocumentLineRequest) (*id.ID, types.Money, error) {
	var itemID *id.ID
	if l.ItemID != "" {
		parsed, err := id.Parse(l.ItemID)
		if err != nil {
			return nil, types.ZeroMoney(), apperror.NewValidation("invalid itemId").
				WithDetail("itemId", l.ItemID)
		}
		itemID = &parsed
	}

	amount, err := types.NewMoneyFromString(l.PricePerUnit)
	if err != nil {
		return nil, types.ZeroMoney(), apperror.NewValidation("invalid pricePerUnit").
			WithDetail("pricePerUnit", l.PricePerUnit)
	}
	return itemID, amount, nil
}

func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplierID, err := id.Parse(req.SupplierID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplierId").WithDetail("supplierId", req.SupplierID))
		return
	}

	doc := purchase.New(supplierID)
	if req.Date != nil {
		doc.Date = *req.Date
	}
	doc.Comment = req.Comment

	for _, l := range req.Lines {
		itemID, cost, err := parseLine(l)
		if err != nil {
			h.Error(c, err)
			return
		}
		doc.AddLine(itemID, l.ItemName, l.Quantity, cost)
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc.ID.String())
}

func (h *PurchaseHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

func (h *PurchaseHandler) Update(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplierID, err := id.Parse(req.SupplierID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid supplierId").WithDetail("supplierId", req.SupplierID))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc.SupplierID = supplierID
	if req.Date != nil {
		doc.Date = *req.Date
	}
	doc.Comment = req.Comment
	if req.Version > 0 {
		doc.Version = req.Version
	}

	doc.Lines = doc.Lines[:0]
	for _, l := range req.Lines {
		itemID, cost, err := parseLine(l)
		if err != nil {
			h.Error(c, err)
			return
		}
		doc.AddLine(itemID, l.ItemName, l.Quantity, cost)
	}

	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

func (h *PurchaseHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PurchaseHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := purchase.ListFilter{
		DateFrom:       q.DateFrom,
		DateTo:         q.DateTo,
		Search:         q.Search,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	if q.CounterpartyID != "" {
		supplierID, err := id.Parse(q.CounterpartyID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid counterpartyId").WithDetail("counterpartyId", q.CounterpartyID))
			return
		}
		filter.SupplierID = &supplierID
	}

	docs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, docs)
}
