package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/period"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/rs/zerolog/log"
)

type LeadService struct {
	leads repository.LeadRepository
	refs  repository.ReferenceRepository
	loc   *time.Location
	now   func() time.Time
}

func NewLeadService(leads repository.LeadRepository, refs repository.ReferenceRepository, loc *time.Location) *LeadService {
	if loc == nil {
		loc = period.LoadLocation("")
	}
	return &LeadService{leads: leads, refs: refs, loc: loc, now: time.Now}
}

func (s *LeadService) List(ctx context.Context, session auth.Session, q domain.ListQuery) ([]domain.Lead, int, error) {
	leads, total, err := s.leads.List(ctx, q, session.LeadScope())
	if err != nil {
		return nil, 0, err
	}
	if leads == nil {
		leads = make([]domain.Lead, 0)
	}
	return leads, total, nil
}

// Get returns a lead the session is allowed to see.
func (s *LeadService) Get(ctx context.Context, session auth.Session, id int64) (*domain.Lead, error) {
	lead, err := s.leads.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scope := session.LeadScope(); scope != 0 && lead.AssignedAgentID != scope {
		return nil, domain.ErrForbidden
	}
	return lead, nil
}

// Create stores a new lead. The creation date defaults to today and the
// assignee to the calling agent.
func (s *LeadService) Create(ctx context.Context, session auth.Session, lead *domain.Lead) error {
	normalizeLead(lead)

	if lead.CreatedDate.IsZero() {
		lead.CreatedDate = period.DayOf(s.now(), s.loc).Start
	}
	if lead.AssignedAgentID == 0 {
		lead.AssignedAgentID = session.AgentID
	}
	if scope := session.LeadScope(); scope != 0 && lead.AssignedAgentID != scope {
		return domain.ErrForbidden
	}
	lead.CreatedBy = session.UserID

	if err := s.validate(ctx, lead); err != nil {
		return err
	}

	if err := s.leads.Create(ctx, lead); err != nil {
		return err
	}

	log.Info().Int64("lead_id", lead.ID).Str("user_id", session.UserID).Msg("lead: created")
	return nil
}

// Update replaces the editable fields of an existing lead.
func (s *LeadService) Update(ctx context.Context, session auth.Session, lead *domain.Lead) error {
	existing, err := s.Get(ctx, session, lead.ID)
	if err != nil {
		return err
	}

	normalizeLead(lead)
	if lead.CreatedDate.IsZero() {
		lead.CreatedDate = existing.CreatedDate
	}
	if lead.AssignedAgentID == 0 {
		lead.AssignedAgentID = existing.AssignedAgentID
	}
	if scope := session.LeadScope(); scope != 0 && lead.AssignedAgentID != scope {
		return domain.ErrForbidden
	}
	lead.CreatedBy = existing.CreatedBy
	lead.CreatedAt = existing.CreatedAt

	if err := s.validate(ctx, lead); err != nil {
		return err
	}

	return s.leads.Update(ctx, lead)
}

// Delete removes a lead. Only admins may delete.
func (s *LeadService) Delete(ctx context.Context, session auth.Session, id int64) error {
	if session.Role != auth.RoleAdmin {
		return domain.ErrForbidden
	}
	if err := s.leads.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("lead_id", id).Str("user_id", session.UserID).Msg("lead: deleted")
	return nil
}

// validate resolves the source and status and checks the variant rules.
func (s *LeadService) validate(ctx context.Context, lead *domain.Lead) error {
	if lead.SourceID <= 0 || lead.StatusID <= 0 {
		return domain.ValidateLead(lead, domain.ReferenceItem{}, domain.LeadStatus{})
	}

	source, err := s.refs.Get(ctx, domain.ReferenceSources, lead.SourceID)
	if err != nil {
		return referenceLookupError("source_id", err)
	}

	statusItem, err := s.refs.Get(ctx, domain.ReferenceStatuses, lead.StatusID)
	if err != nil {
		return referenceLookupError("status_id", err)
	}
	status := domain.NormalizeStatuses([]domain.LeadStatus{{ID: statusItem.ID, Label: statusItem.Name, Kind: statusItem.Kind}})[0]

	return domain.ValidateLead(lead, *source, status)
}

func referenceLookupError(field string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(field, "does not exist")
	}
	return err
}

func normalizeLead(lead *domain.Lead) {
	lead.Name = strings.TrimSpace(lead.Name)
	lead.Phone = strings.TrimSpace(lead.Phone)
	lead.FacilityName = strings.TrimSpace(lead.FacilityName)
	lead.Province = strings.TrimSpace(lead.Province)
	lead.City = strings.TrimSpace(lead.City)
	lead.Notes = strings.TrimSpace(lead.Notes)

	if lead.Ads != nil && lead.Ads.AdCodeID == 0 && strings.TrimSpace(lead.Ads.AdID) == "" {
		lead.Ads = nil
	}
	if lead.Rejection != nil && lead.Rejection.ReasonID == 0 && strings.TrimSpace(lead.Rejection.Note) == "" {
		lead.Rejection = nil
	}
}
