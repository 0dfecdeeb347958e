package handlers

import (
	"github.com/gin-gonic/gin"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/documents/sale"
	"turbostock/internal/infrastructure/http/v1/dto"
)

// SaleHandler exposes sale documents.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts sale endpoints on rg.
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customerID, err := id.Parse(req.CustomerID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId").WithDetail("customerId", req.CustomerID))
		return
	}

	doc := sale.New(customerID)
	if req.Date != nil {
		doc.Date = *req.Date
	}
	doc.Comment = req.Comment

	for _, l := range req.Lines {
		itemID, price, err := parseLine(l)
		if err != nil {
			h.Error(c, err)
			return
		}
		doc.AddLine(itemID, l.ItemName, l.Quantity, price)
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc.ID.String())
}

func (h *SaleHandler) GetByID(c *gin.Context) {
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

func (h *SaleHandler) Update(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customerID, err := id.Parse(req.CustomerID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId").WithDetail("customerId", req.CustomerID))
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc.CustomerID = customerID
	if req.Date != nil {
		doc.Date = *req.Date
	}
	doc.Comment = req.Comment
	if req.Version > 0 {
		doc.Version = req.Version
	}

	doc.Lines = doc.Lines[:0]
	for _, l := range req.Lines {
		itemID, price, err := parseLine(l)
		if err != nil {
			h.Error(c, err)
			return
		}
		doc.AddLine(itemID, l.ItemName, l.Quantity, price)
	}

	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

func (h *SaleHandler) Delete(c *gin.Context) {
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

func (h *SaleHandler) List(c *gin.Context) {
	var q dto.DocumentListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter := sale.ListFilter{
		DateFrom:       q.DateFrom,
		DateTo:         q.DateTo,
		Search:         q.Search,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
	if q.CounterpartyID != "" {
		customerID, err := id.Parse(q.CounterpartyID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid counterpartyId").WithDetail("counterpartyId", q.CounterpartyID))
			return
		}
		filter.CustomerID = &customerID
	}

	docs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, docs)
}
