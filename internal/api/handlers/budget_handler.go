package handlers

import (
	"net/http"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader lets clients make a top-up safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

type BudgetHandler struct {
	service *service.BudgetService
}

func NewBudgetHandler(service *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

type topUpBody struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// spentBody.Amount is a pointer so a missing amount is rejected instead of
// overwriting the spent figure with zero.
type spentBody struct {
	Amount     *float64 `json:"amount"`
	IncludeTax bool     `json:"include_tax"`
}

func (h *BudgetHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "ad_code_id")
	if err != nil {
		respondError(c, "invalid ad code", err)
		return
	}

	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch budget", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *BudgetHandler) History(c *gin.Context) {
	id, err := parseIDParam(c, "ad_code_id")
	if err != nil {
		respondError(c, "invalid ad code", err)
		return
	}

	entries, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, "failed to fetch budget history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": entries})
}

func (h *BudgetHandler) TopUp(c *gin.Context) {
	id, err := parseIDParam(c, "ad_code_id")
	if err != nil {
		respondError(c, "invalid ad code", err)
		return
	}

	var body topUpBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	res, err := h.service.TopUp(c.Request.Context(), sessionFrom(c), service.TopUpRequest{
		AdCodeID:       id,
		Amount:         body.Amount,
		Description:    body.Description,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		respondError(c, "failed to top up budget", err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *BudgetHandler) UpdateSpent(c *gin.Context) {
	id, err := parseIDParam(c, "ad_code_id")
	if err != nil {
		respondError(c, "invalid ad code", err)
		return
	}

	var body spentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if body.Amount == nil {
		respondError(c, "invalid request body", domain.NewValidationError("amount", "is required"))
		return
	}

	view, err := h.service.UpdateSpent(c.Request.Context(), sessionFrom(c), service.SpentUpdateRequest{
		AdCodeID:   id,
		Amount:     *body.Amount,
		IncludeTax: body.IncludeTax,
	})
	if err != nil {
		respondError(c, "failed to update spent budget", err)
		return
	}

	c.JSON(http.StatusOK, view)
}
