package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getFlowByEvent(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	unitTypeID, ok := queryID(c, "unit_type_id")
	if !ok {
		return
	}
	flow, err := h.flows.ByEvent(c.Request.Context(), eventID, unitTypeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}

func (h *Handler) getFlowByInviteCode(c *gin.Context) {
	unitTypeID, ok := queryID(c, "unit_type_id")
	if !ok {
		return
	}
	flow, err := h.flows.ByInviteCode(c.Request.Context(), c.Param("code"), unitTypeID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, flow)
}
