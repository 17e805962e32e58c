package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
)

func TestReferenceService_CreateStatusClassifiesLabel(t *testing.T) {
	refs := newFakeRefs()
	svc := NewReferenceService(refs)
	ctx := context.Background()

	item, err := svc.Create(ctx, adminSession, "statuses", ReferenceInput{Name: "Bukan Leads - Harga"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusKindRejected, item.Kind)

	item, err = svc.Create(ctx, adminSession, "statuses", ReferenceInput{Name: "Closing", Kind: "converted"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusKindConverted, item.Kind)

	_, err = svc.Create(ctx, adminSession, "statuses", ReferenceInput{Name: "Closing", Kind: "won"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "kind", vErr.Field)
}

func TestReferenceService_Validation(t *testing.T) {
	svc := NewReferenceService(newFakeRefs())
	ctx := context.Background()

	_, err := svc.Create(ctx, adminSession, "sources", ReferenceInput{Name: "   "})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	_, _, err = svc.List(ctx, "provinces", domain.ListQuery{})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "kind", vErr.Field)
}

func TestReferenceService_AdminOnlyMutations(t *testing.T) {
	refs := newFakeRefs()
	refs.add(domain.ReferenceSources, 1, "Referral", "")
	svc := NewReferenceService(refs)
	ctx := context.Background()

	_, err := svc.Create(ctx, marketingSession, "sources", ReferenceInput{Name: "Event"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Update(ctx, agentSession, "sources", 1, ReferenceInput{Name: "Event"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, marketingSession, "sources", 1), domain.ErrForbidden)

	items, total, err := svc.List(ctx, "sources", domain.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Referral", items[0].Name)

	updated, err := svc.Update(ctx, adminSession, "sources", 1, ReferenceInput{Name: "Referral Dokter"})
	require.NoError(t, err)
	assert.Equal(t, "Referral Dokter", updated.Name)
	assert.Empty(t, updated.Kind)

	require.NoError(t, svc.Delete(ctx, adminSession, "sources", 1))
	_, err = svc.Get(ctx, "sources", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReferenceService_BackfillStatusKinds(t *testing.T) {
	refs := newFakeRefs()
	seedStatuses(refs)
	refs.add(domain.ReferenceStatuses, 5, "Follow Up", domain.StatusKindProspect)
	svc := NewReferenceService(refs)

	n, err := svc.BackfillStatusKinds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, map[int64]domain.StatusKind{
		1: domain.StatusKindProspect,
		2: domain.StatusKindContacted,
		3: domain.StatusKindConverted,
		4: domain.StatusKindRejected,
		5: domain.StatusKindProspect,
	}, refs.kindUpdates)
}
