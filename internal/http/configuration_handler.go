package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/snowops-contracts/internal/service"
)

func (h *Handler) createConfiguration(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req service.CreateConfigurationInput
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.configurations.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

func (h *Handler) getConfiguration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cfg, err := h.configurations.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) getEventConfiguration(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	cfg, err := h.configurations.GetByEvent(c.Request.Context(), eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) updateConfiguration(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateConfigurationInput
	if !bindJSON(c, &req) {
		return
	}

	cfg, err := h.configurations.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) addUnitType(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UnitTypeInput
	if !bindJSON(c, &req) {
		return
	}

	unitType, err := h.configurations.AddUnitType(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, unitType)
}

func (h *Handler) updateUnitType(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUnitTypeInput
	if !bindJSON(c, &req) {
		return
	}

	unitType, err := h.configurations.UpdateUnitType(c.Request.Context(), principal, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, unitType)
}

func (h *Handler) deleteUnitType(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.configurations.DeleteUnitType(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
