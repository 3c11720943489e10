package handlers

import (
	"github.com/gin-gonic/gin"

	"recordbase/internal/core/apperror"
	"recordbase/internal/core/id"
	"recordbase/internal/domain/catalogs/counterparty"
	"recordbase/internal/infrastructure/http/v1/dto"
	"recordbase/internal/query"
)

// CounterpartyHandler serves the counterparty catalog endpoints.
type CounterpartyHandler struct {
	*BaseHandler
	service *counterparty.Service
}

// NewCounterpartyHandler creates a new counterparty handler.
func NewCounterpartyHandler(base *BaseHandler, service *counterparty.Service) *CounterpartyHandler {
	return &CounterpartyHandler{BaseHandler: base, service: service}
}

// RegisterRoutes mounts the handler on a router group.
func (h *CounterpartyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/counterparties")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.POST("/:id/deletion-mark", h.SetDeletionMark)
}

// List handles dynamic list queries:
// GET /counterparties?filter[status][eq]=active&sort=-createdAt,name&include=bankAccounts&page=1&pageSize=20
func (h *CounterpartyHandler) List(c *gin.Context) {
	params := h.BindListParams(c)

	page, err := h.service.Search(c.Request.Context(), params)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, query.MapPage(page, dto.FromCounterparty))
}

// Get handles GET /counterparties/:id.
func (h *CounterpartyHandler) Get(c *gin.Context) {
	cpID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("id", c.Param("id")))
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), cpID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCounterparty(*cp))
}

// Create handles POST /counterparties.
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req dto.CreateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid credit limit").WithCause(err))
		return
	}

	if err := h.service.Create(c.Request.Context(), cp); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, cp.ID.String())
}

// Update handles PUT /counterparties/:id.
func (h *CounterpartyHandler) Update(c *gin.Context) {
	cpID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("id", c.Param("id")))
		return
	}

	var req dto.UpdateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), cpID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.ApplyTo(cp); err != nil {
		h.Error(c, apperror.NewValidation("invalid credit limit").WithCause(err))
		return
	}

	if err := h.service.Update(c.Request.Context(), cp); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromCounterparty(*cp))
}

// SetDeletionMark handles POST /counterparties/:id/deletion-mark.
func (h *CounterpartyHandler) SetDeletionMark(c *gin.Context) {
	cpID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id").WithDetail("id", c.Param("id")))
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), cpID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "deletion mark updated")
}
