package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/rs/zerolog/log"
)

type ReferenceService struct {
	refs repository.ReferenceRepository
}

func NewReferenceService(refs repository.ReferenceRepository) *ReferenceService {
	return &ReferenceService{refs: refs}
}

// ReferenceInput is the writable part of a master-data item. Kind only
// applies to statuses; when empty it is derived from the name.
type ReferenceInput struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

func parseKind(kind string) (domain.ReferenceKind, error) {
	k, ok := domain.ParseReferenceKind(kind)
	if !ok {
		return "", domain.NewValidationError("kind", fmt.Sprintf("unknown reference kind %q", kind))
	}
	return k, nil
}

func (s *ReferenceService) List(ctx context.Context, kind string, q domain.ListQuery) ([]domain.ReferenceItem, int, error) {
	k, err := parseKind(kind)
	if err != nil {
		return nil, 0, err
	}
	return s.refs.List(ctx, k, q)
}

func (s *ReferenceService) Get(ctx context.Context, kind string, id int64) (*domain.ReferenceItem, error) {
	k, err := parseKind(kind)
	if err != nil {
		return nil, err
	}
	return s.refs.Get(ctx, k, id)
}

// Statuses returns every lead status with its kind resolved.
func (s *ReferenceService) Statuses(ctx context.Context) ([]domain.LeadStatus, error) {
	return s.refs.ListStatuses(ctx)
}

func (s *ReferenceService) Create(ctx context.Context, session auth.Session, kind string, in ReferenceInput) (*domain.ReferenceItem, error) {
	if !session.CanManageReferences() {
		return nil, domain.ErrForbidden
	}
	k, name, statusKind, err := resolveReferenceInput(kind, in)
	if err != nil {
		return nil, err
	}

	item, err := s.refs.Create(ctx, k, name, statusKind)
	if err != nil {
		return nil, err
	}
	log.Info().Str("kind", string(k)).Int64("id", item.ID).Str("user_id", session.UserID).Msg("reference: created")
	return item, nil
}

func (s *ReferenceService) Update(ctx context.Context, session auth.Session, kind string, id int64, in ReferenceInput) (*domain.ReferenceItem, error) {
	if !session.CanManageReferences() {
		return nil, domain.ErrForbidden
	}
	k, name, statusKind, err := resolveReferenceInput(kind, in)
	if err != nil {
		return nil, err
	}
	return s.refs.Update(ctx, k, id, name, statusKind)
}

func (s *ReferenceService) Delete(ctx context.Context, session auth.Session, kind string, id int64) error {
	if !session.CanManageReferences() {
		return domain.ErrForbidden
	}
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	if err := s.refs.Delete(ctx, k, id); err != nil {
		return err
	}
	log.Info().Str("kind", string(k)).Int64("id", id).Str("user_id", session.UserID).Msg("reference: deleted")
	return nil
}

// BackfillStatusKinds persists the resolved kind of every status. Statuses
// stored without a valid kind get the one derived from their label.
func (s *ReferenceService) BackfillStatusKinds(ctx context.Context) (int, error) {
	statuses, err := s.refs.ListStatuses(ctx)
	if err != nil {
		return 0, err
	}
	for _, st := range statuses {
		if err := s.refs.SetStatusKind(ctx, st.ID, st.Kind); err != nil {
			return 0, err
		}
	}
	return len(statuses), nil
}

func resolveReferenceInput(kind string, in ReferenceInput) (domain.ReferenceKind, string, domain.StatusKind, error) {
	k, err := parseKind(kind)
	if err != nil {
		return "", "", "", err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", "", "", domain.NewValidationError("name", "is required")
	}

	if k != domain.ReferenceStatuses {
		return k, name, "", nil
	}

	if strings.TrimSpace(in.Kind) == "" {
		return k, name, domain.ClassifyStatusLabel(name), nil
	}
	statusKind, ok := domain.ParseStatusKind(in.Kind)
	if !ok {
		return "", "", "", domain.NewValidationError("kind", fmt.Sprintf("unknown status kind %q", in.Kind))
	}
	return k, name, statusKind, nil
}
