package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/service"
)

type updateContractStatusRequest struct {
	Status model.ContractStatus `json:"status" binding:"required"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req service.CreateContractInput
	if !bindJSON(c, &req) {
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) getContractByCode(c *gin.Context) {
	contract, err := h.contracts.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.Public())
}

func (h *Handler) updateContractStatus(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateContractStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	contract, err := h.contracts.UpdateStatus(c.Request.Context(), principal, id, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *Handler) listEventContracts(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	contracts, err := h.contracts.ListByEvent(c.Request.Context(), principal, eventID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contracts})
}

func (h *Handler) listPartnerContracts(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	contracts, err := h.contracts.ListForPartner(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contracts})
}

func (h *Handler) listMyContracts(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	contracts, err := h.contracts.ListForCustomer(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": contracts})
}
