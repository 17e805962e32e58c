package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// StatusKind is the pipeline stage a lead status belongs to.
type StatusKind string

const (
	StatusKindProspect  StatusKind = "prospect"
	StatusKindContacted StatusKind = "contacted"
	StatusKindConverted StatusKind = "converted"
	StatusKindRejected  StatusKind = "rejected"
)

var statusKindLabels = map[StatusKind]string{
	StatusKindProspect:  "Prospek",
	StatusKindContacted: "Dihubungi",
	StatusKindConverted: "Leads",
	StatusKindRejected:  "Bukan Leads",
}

// LeadStatus is one row of the status reference table.
type LeadStatus struct {
	ID    int64      `json:"id" db:"id"`
	Label string     `json:"label" db:"label"`
	Kind  StatusKind `json:"kind" db:"kind"`
}

// IsConverted reports whether leads in this status count as conversions.
func (s LeadStatus) IsConverted() bool {
	return s.Kind == StatusKindConverted
}

// Label returns a human-readable label for a status kind.
func (k StatusKind) Label() string {
	if label, ok := statusKindLabels[k]; ok {
		return label
	}

	return "Unknown"
}

// Valid reports whether k is one of the known kinds.
func (k StatusKind) Valid() bool {
	_, ok := statusKindLabels[k]
	return ok
}

// ParseStatusKind returns the kind for a given string (case-insensitive).
func ParseStatusKind(s string) (StatusKind, bool) {
	kind := StatusKind(strings.ToLower(strings.TrimSpace(s)))

	return kind, kind.Valid()
}

// ClassifyStatusLabel derives the kind of a status from its display label.
// "Bukan Leads" is checked before "Leads" so rejections never count as conversions.
func ClassifyStatusLabel(label string) StatusKind {
	switch {
	case containsFold(label, "bukan leads"):
		return StatusKindRejected
	case containsFold(label, "leads"):
		return StatusKindConverted
	case containsFold(label, "hubungi"), containsFold(label, "contact"), containsFold(label, "follow"):
		return StatusKindContacted
	default:
		return StatusKindProspect
	}
}

// NormalizeStatuses fills in the kind of any status loaded without a valid one.
func NormalizeStatuses(statuses []LeadStatus) []LeadStatus {
	out := make([]LeadStatus, len(statuses))
	for i, s := range statuses {
		if !s.Kind.Valid() {
			s.Kind = ClassifyStatusLabel(s.Label)
		}
		out[i] = s
	}
	return out
}

// ConvertedStatusIDs returns the set of status IDs that count as conversions.
func ConvertedStatusIDs(statuses []LeadStatus) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, s := range statuses {
		if s.IsConverted() {
			ids[s.ID] = struct{}{}
		}
	}
	return ids
}

// IsAdsSource reports whether a lead source name denotes paid advertising.
func IsAdsSource(sourceName string) bool {
	return containsFold(sourceName, "ads")
}

func containsFold(s, substr string) bool {
	// cases.Caser is stateful, so a fresh one is built per call.
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}
