package handlers

import (
	"net/http"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	service *service.ReferenceService
}

func NewReferenceHandler(service *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

func (h *ReferenceHandler) List(c *gin.Context) {
	q, page, pageSize := listQueryFromRequest(c)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("name", domain.OpILike, search)
	}

	items, total, err := h.service.List(c.Request.Context(), c.Param("kind"), q)
	if err != nil {
		respondError(c, "failed to fetch references", err)
		return
	}

	c.JSON(http.StatusOK, domain.ListResult[domain.ReferenceItem]{Items: items, Total: total, Page: page, PageSize: pageSize})
}

func (h *ReferenceHandler) Create(c *gin.Context) {
	var in service.ReferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.service.Create(c.Request.Context(), sessionFrom(c), c.Param("kind"), in)
	if err != nil {
		respondError(c, "failed to create reference", err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ReferenceHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, "invalid id", err)
		return
	}

	var in service.ReferenceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.service.Update(c.Request.Context(), sessionFrom(c), c.Param("kind"), id, in)
	if err != nil {
		respondError(c, "failed to update reference", err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ReferenceHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, "invalid id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), sessionFrom(c), c.Param("kind"), id); err != nil {
		respondError(c, "failed to delete reference", err)
		return
	}

	c.Status(http.StatusNoContent)
}
