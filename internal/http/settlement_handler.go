package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) getSettlement(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	settlement, err := h.settlements.Get(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, settlement)
}

func (h *Handler) exportSettlement(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	result, err := h.settlements.Export(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, xlsxContentType, result.Content)
}
