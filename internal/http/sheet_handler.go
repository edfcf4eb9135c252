package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/snowops-contracts/internal/service"
)

type saveMatrixRequest struct {
	Columns []service.ColumnInput `json:"columns"`
	Rows    []service.RowInput    `json:"rows"`
}

func (h *Handler) createSheet(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	configurationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.CreateSheetInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	sheet, created, err := h.sheets.Create(c.Request.Context(), principal, configurationID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, sheet)
}

func (h *Handler) listSheets(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	configurationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	sheets, err := h.sheets.List(c.Request.Context(), principal, configurationID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sheets})
}

func (h *Handler) getSheet(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sheet, err := h.sheets.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (h *Handler) updateSheet(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateSheetInput
	if !bindJSON(c, &req) {
		return
	}
	sheet, err := h.sheets.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (h *Handler) replaceColumns(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req []service.ColumnInput
	if !bindJSON(c, &req) {
		return
	}
	columns, err := h.sheets.ReplaceColumns(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": columns})
}

func (h *Handler) replaceRows(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req []service.RowInput
	if !bindJSON(c, &req) {
		return
	}
	rows, err := h.sheets.ReplaceRows(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (h *Handler) saveMatrix(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req saveMatrixRequest
	if !bindJSON(c, &req) {
		return
	}
	sheet, err := h.sheets.SaveMatrix(c.Request.Context(), principal, id, req.Columns, req.Rows)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (h *Handler) addRow(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.RowInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.sheets.AddRow(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, row)
}

func (h *Handler) updateRow(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateRowInput
	if !bindJSON(c, &req) {
		return
	}
	row, err := h.sheets.UpdateRow(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) deleteRow(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.sheets.DeleteRow(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
