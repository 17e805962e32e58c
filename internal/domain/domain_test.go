package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatusLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  StatusKind
	}{
		{"Prospek", StatusKindProspect},
		{"Baru", StatusKindProspect},
		{"Leads", StatusKindConverted},
		{"Leads (Converted)", StatusKindConverted},
		{"LEADS", StatusKindConverted},
		{"Bukan Leads", StatusKindRejected},
		{"bukan leads - spam", StatusKindRejected},
		{"Sudah Dihubungi", StatusKindContacted},
		{"Follow Up", StatusKindContacted},
		{"Contacted", StatusKindContacted},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyStatusLabel(tt.label))
		})
	}
}

func TestNormalizeStatuses(t *testing.T) {
	t.Parallel()

	in := []LeadStatus{
		{ID: 1, Label: "Leads"},
		{ID: 2, Label: "Leads", Kind: StatusKindProspect},
		{ID: 3, Label: "Bukan Leads", Kind: "garbage"},
	}

	out := NormalizeStatuses(in)
	assert.Equal(t, StatusKindConverted, out[0].Kind)
	assert.Equal(t, StatusKindProspect, out[1].Kind, "a stored valid kind wins over the label")
	assert.Equal(t, StatusKindRejected, out[2].Kind)
	assert.Equal(t, StatusKind(""), in[0].Kind, "input is not mutated")

	ids := ConvertedStatusIDs(out)
	assert.Len(t, ids, 1)
	assert.Contains(t, ids, int64(1))
}

func TestParseStatusKind(t *testing.T) {
	t.Parallel()

	kind, ok := ParseStatusKind(" Converted ")
	assert.True(t, ok)
	assert.Equal(t, StatusKindConverted, kind)
	assert.Equal(t, "Leads", kind.Label())

	_, ok = ParseStatusKind("won")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", StatusKind("won").Label())
}

func TestIsAdsSource(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAdsSource("Meta Ads"))
	assert.True(t, IsAdsSource("GOOGLE ADS"))
	assert.False(t, IsAdsSource("Referral"))
}

func TestValidateLead(t *testing.T) {
	t.Parallel()

	adsSource := ReferenceItem{ID: 1, Name: "Meta Ads"}
	organic := ReferenceItem{ID: 2, Name: "Walk In"}
	prospect := LeadStatus{ID: 1, Label: "Prospek", Kind: StatusKindProspect}
	rejected := LeadStatus{ID: 4, Label: "Bukan Leads", Kind: StatusKindRejected}

	base := func() *Lead {
		return &Lead{Name: "Klinik Sehat", SourceID: 2, StatusID: 1}
	}

	tests := []struct {
		name      string
		lead      func() *Lead
		source    ReferenceItem
		status    LeadStatus
		wantField string
	}{
		{name: "valid organic", lead: base, source: organic, status: prospect},
		{
			name: "valid ads",
			lead: func() *Lead {
				l := base()
				l.Ads = &AdAttribution{AdCodeID: 3, AdID: "120210"}
				return l
			},
			source: adsSource,
			status: prospect,
		},
		{
			name: "valid rejection",
			lead: func() *Lead {
				l := base()
				l.Rejection = &Rejection{ReasonID: 2, Note: "salah nomor"}
				return l
			},
			source: organic,
			status: rejected,
		},
		{name: "missing name", lead: func() *Lead { l := base(); l.Name = " "; return l }, source: organic, status: prospect, wantField: "name"},
		{name: "missing source", lead: func() *Lead { l := base(); l.SourceID = 0; return l }, source: organic, status: prospect, wantField: "source_id"},
		{name: "missing status", lead: func() *Lead { l := base(); l.StatusID = 0; return l }, source: organic, status: prospect, wantField: "status_id"},
		{name: "ads source without ad code", lead: base, source: adsSource, status: prospect, wantField: "ads.ad_code_id"},
		{
			name: "ad code on organic source",
			lead: func() *Lead {
				l := base()
				l.Ads = &AdAttribution{AdCodeID: 3}
				return l
			},
			source:    organic,
			status:    prospect,
			wantField: "ads",
		},
		{name: "rejected without reason", lead: base, source: organic, status: rejected, wantField: "rejection.reason_id"},
		{
			name: "reason on non rejected",
			lead: func() *Lead {
				l := base()
				l.Rejection = &Rejection{ReasonID: 2}
				return l
			},
			source:    organic,
			status:    prospect,
			wantField: "rejection",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateLead(tt.lead(), tt.source, tt.status)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestDimensionValues_Value(t *testing.T) {
	t.Parallel()

	v := DimensionValues{Source: "Meta Ads", City: "Bandung"}
	assert.Equal(t, "Meta Ads", v.Value(DimensionSource))
	assert.Equal(t, "Bandung", v.Value(DimensionCity))
	assert.Equal(t, UnknownDimensionValue, v.Value(DimensionAssignedAgent))

	d, ok := ParseDimension("facility_type")
	assert.True(t, ok)
	assert.Equal(t, DimensionFacilityType, d)
	_, ok = ParseDimension("province")
	assert.False(t, ok)
	assert.Len(t, AllDimensions(), 6)
}

func TestPageRange(t *testing.T) {
	t.Parallel()

	start, end := PageRange(1, 50)
	assert.Equal(t, 0, start)
	assert.Equal(t, 49, end)

	start, end = PageRange(3, 20)
	assert.Equal(t, 40, start)
	assert.Equal(t, 59, end)

	start, end = PageRange(0, 5000)
	assert.Equal(t, 0, start)
	assert.Equal(t, MaxRangeSize-1, end)
}

func TestUpstreamFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := error(&UpstreamFetchError{Resource: "statuses", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetch statuses failed: connection refused", err.Error())
}
