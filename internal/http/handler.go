package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/snowops-contracts/internal/http/middleware"
	"github.com/nurpe/snowops-contracts/internal/model"
	"github.com/nurpe/snowops-contracts/internal/service"
)

type Services struct {
	Configurations *service.ConfigurationService
	Sheets         *service.SheetService
	Flows          *service.FlowService
	Contracts      *service.ContractService
	Settlements    *service.SettlementService
}

type Handler struct {
	configurations *service.ConfigurationService
	sheets         *service.SheetService
	flows          *service.FlowService
	contracts      *service.ContractService
	settlements    *service.SettlementService
	log            zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{
		configurations: services.Configurations,
		sheets:         services.Sheets,
		flows:          services.Flows,
		contracts:      services.Contracts,
		settlements:    services.Settlements,
		log:            log,
	}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	public := router.Group("/")
	public.GET("/flows/events/:eventId", h.getFlowByEvent)
	public.GET("/flows/invite/:code", h.getFlowByInviteCode)
	public.GET("/contracts/code/:code", h.getContractByCode)

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/configurations", h.createConfiguration)
	protected.GET("/configurations/:id", h.getConfiguration)
	protected.PATCH("/configurations/:id", h.updateConfiguration)
	protected.GET("/events/:eventId/configuration", h.getEventConfiguration)
	protected.POST("/configurations/:id/unit-types", h.addUnitType)
	protected.PATCH("/unit-types/:id", h.updateUnitType)
	protected.DELETE("/unit-types/:id", h.deleteUnitType)

	protected.POST("/configurations/:id/sheets", h.createSheet)
	protected.GET("/configurations/:id/sheets", h.listSheets)
	protected.GET("/sheets/:id", h.getSheet)
	protected.PATCH("/sheets/:id", h.updateSheet)
	protected.PUT("/sheets/:id/columns", h.replaceColumns)
	protected.PUT("/sheets/:id/rows", h.replaceRows)
	protected.PUT("/sheets/:id/matrix", h.saveMatrix)
	protected.POST("/sheets/:id/rows", h.addRow)
	protected.PATCH("/rows/:id", h.updateRow)
	protected.DELETE("/rows/:id", h.deleteRow)

	protected.POST("/contracts", h.createContract)
	protected.GET("/contracts/:id", h.getContract)
	protected.PATCH("/contracts/:id/status", h.updateContractStatus)
	protected.GET("/events/:eventId/contracts", h.listEventContracts)
	protected.GET("/partner/contracts", h.listPartnerContracts)
	protected.GET("/me/contracts", h.listMyContracts)

	protected.GET("/events/:eventId/settlement", h.getSettlement)
	protected.GET("/events/:eventId/settlement/export", h.exportSettlement)
}

func (h *Handler) principal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

// pathID parses a uuid path parameter, answering 400 when it is malformed.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
