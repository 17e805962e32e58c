package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type LeadHandler struct {
	service *service.LeadService
	loc     *time.Location
}

func NewLeadHandler(service *service.LeadService, loc *time.Location) *LeadHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LeadHandler{service: service, loc: loc}
}

// leadInput is the request body for creating or updating a prospect.
type leadInput struct {
	CreatedDate     string                `json:"created_date"`
	Name            string                `json:"name"`
	Phone           string                `json:"phone"`
	FacilityName    string                `json:"facility_name"`
	Province        string                `json:"province"`
	City            string                `json:"city"`
	SourceID        int64                 `json:"source_id"`
	ServiceID       int64                 `json:"service_id"`
	FacilityTypeID  int64                 `json:"facility_type_id"`
	StatusID        int64                 `json:"status_id"`
	AssignedAgentID int64                 `json:"assigned_agent_id"`
	Ads             *domain.AdAttribution `json:"ads"`
	Rejection       *domain.Rejection     `json:"rejection"`
	Notes           string                `json:"notes"`
}

func (in leadInput) toLead(loc *time.Location) (*domain.Lead, error) {
	lead := &domain.Lead{
		Name:            in.Name,
		Phone:           in.Phone,
		FacilityName:    in.FacilityName,
		Province:        in.Province,
		City:            in.City,
		SourceID:        in.SourceID,
		ServiceID:       in.ServiceID,
		FacilityTypeID:  in.FacilityTypeID,
		StatusID:        in.StatusID,
		AssignedAgentID: in.AssignedAgentID,
		Ads:             in.Ads,
		Rejection:       in.Rejection,
		Notes:           in.Notes,
	}
	if d := strings.TrimSpace(in.CreatedDate); d != "" {
		t, err := time.ParseInLocation(dateLayout, d, loc)
		if err != nil {
			return nil, domain.NewValidationError("created_date", "must be YYYY-MM-DD")
		}
		lead.CreatedDate = t
	}
	return lead, nil
}

func (h *LeadHandler) parseFilter(c *gin.Context) (domain.ListQuery, int, int, error) {
	q, page, pageSize := listQueryFromRequest(c)

	idFilters := []struct{ param, field string }{
		{"status_id", "status_id"},
		{"source_id", "source_id"},
		{"ad_code_id", "ad_code_id"},
		{"service_id", "service_id"},
		{"facility_type_id", "facility_type_id"},
		{"agent_id", "assigned_agent_id"},
	}
	for _, f := range idFilters {
		ids := parseInt64List(c.Query(f.param))
		switch len(ids) {
		case 0:
		case 1:
			q = q.Where(f.field, domain.OpEq, ids[0])
		default:
			q = q.Where(f.field, domain.OpIn, ids)
		}
	}

	if city := strings.TrimSpace(c.Query("city")); city != "" {
		q = q.Where("city", domain.OpILike, city)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("name", domain.OpILike, search)
	}

	for _, bound := range []struct {
		param string
		op    domain.FilterOp
	}{{"from", domain.OpGte}, {"to", domain.OpLte}} {
		value := strings.TrimSpace(c.Query(bound.param))
		if value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, value); err != nil {
			return domain.ListQuery{}, 0, 0, domain.NewValidationError(bound.param, "must be YYYY-MM-DD")
		}
		q = q.Where("created_date", bound.op, value)
	}

	return q, page, pageSize, nil
}

func (h *LeadHandler) List(c *gin.Context) {
	q, page, pageSize, err := h.parseFilter(c)
	if err != nil {
		respondError(c, "invalid filter", err)
		return
	}

	leads, total, err := h.service.List(c.Request.Context(), sessionFrom(c), q)
	if err != nil {
		respondError(c, "failed to fetch prospects", err)
		return
	}

	c.JSON(http.StatusOK, domain.ListResult[domain.Lead]{Items: leads, Total: total, Page: page, PageSize: pageSize})
}

func (h *LeadHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, "invalid id", err)
		return
	}

	lead, err := h.service.Get(c.Request.Context(), sessionFrom(c), id)
	if err != nil {
		respondError(c, "failed to fetch prospect", err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Create(c *gin.Context) {
	var in leadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	lead, err := in.toLead(h.loc)
	if err != nil {
		respondError(c, "invalid prospect", err)
		return
	}

	if err := h.service.Create(c.Request.Context(), sessionFrom(c), lead); err != nil {
		respondError(c, "failed to create prospect", err)
		return
	}

	c.JSON(http.StatusCreated, lead)
}

func (h *LeadHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, "invalid id", err)
		return
	}

	var in leadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	lead, err := in.toLead(h.loc)
	if err != nil {
		respondError(c, "invalid prospect", err)
		return
	}
	lead.ID = id

	if err := h.service.Update(c.Request.Context(), sessionFrom(c), lead); err != nil {
		respondError(c, "failed to update prospect", err)
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, "invalid id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), sessionFrom(c), id); err != nil {
		respondError(c, "failed to delete prospect", err)
		return
	}

	c.Status(http.StatusNoContent)
}
