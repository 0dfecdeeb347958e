package handlers

import (
	"github.com/gin-gonic/gin"

	"turbostock/internal/core/apperror"
	"turbostock/internal/domain/audit"
)

// AuditHandler exposes the document change history.
type AuditHandler struct {
	*BaseHandler
	changeLog audit.ChangeLog
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(base *BaseHandler, changeLog audit.ChangeLog) *AuditHandler {
	return &AuditHandler{BaseHandler: base, changeLog: changeLog}
}

// RegisterRoutes mounts audit endpoints on rg.
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:entity/:id", h.History)
}

var auditedEntities = map[string]bool{
	"purchase": true,
	"sale":     true,
}

// History lists recorded changes for one document, newest first.
func (h *AuditHandler) History(c *gin.Context) {
	entity := c.Param("entity")
	if !auditedEntities[entity] {
		h.Error(c, apperror.NewValidation("unknown audited entity").WithDetail("entity", entity))
		return
	}

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entries, err := h.changeLog.ListForEntity(c.Request.Context(), entity, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, entries)
}
