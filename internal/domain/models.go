package domain

import (
	"strings"
	"time"
)

// Lead is a single prospect record ("prospek").
// Ads is set only for ads-sourced leads; Rejection only for rejected ones.
type Lead struct {
	ID                int64          `json:"id"`
	CreatedDate       time.Time      `json:"created_date"`
	Name              string         `json:"name"`
	Phone             string         `json:"phone"`
	FacilityName      string         `json:"facility_name"`
	Province          string         `json:"province"`
	City              string         `json:"city"`
	SourceID          int64          `json:"source_id"`
	SourceName        string         `json:"source_name,omitempty"`
	ServiceID         int64          `json:"service_id,omitempty"`
	ServiceName       string         `json:"service_name,omitempty"`
	FacilityTypeID    int64          `json:"facility_type_id,omitempty"`
	FacilityTypeName  string         `json:"facility_type_name,omitempty"`
	StatusID          int64          `json:"status_id"`
	StatusLabel       string         `json:"status_label,omitempty"`
	AssignedAgentID   int64          `json:"assigned_agent_id,omitempty"`
	AssignedAgentName string         `json:"assigned_agent_name,omitempty"`
	Ads               *AdAttribution `json:"ads,omitempty"`
	Rejection         *Rejection     `json:"rejection,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	CreatedBy         string         `json:"created_by,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// AdAttribution ties a lead to the ad code and ad that produced it.
type AdAttribution struct {
	AdCodeID   int64  `json:"ad_code_id"`
	AdCodeName string `json:"ad_code_name,omitempty"`
	AdID       string `json:"ad_id,omitempty"`
}

// Rejection holds why a lead was marked "Bukan Leads".
type Rejection struct {
	ReasonID   int64  `json:"reason_id"`
	ReasonName string `json:"reason_name,omitempty"`
	Note       string `json:"note,omitempty"`
}

// ValidateLead checks required fields and the source/status dependent variants.
func ValidateLead(lead *Lead, source ReferenceItem, status LeadStatus) error {
	if strings.TrimSpace(lead.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if lead.SourceID <= 0 {
		return NewValidationError("source_id", "is required")
	}
	if lead.StatusID <= 0 {
		return NewValidationError("status_id", "is required")
	}

	if IsAdsSource(source.Name) {
		if lead.Ads == nil || lead.Ads.AdCodeID <= 0 {
			return NewValidationError("ads.ad_code_id", "is required for ads sources")
		}
	} else if lead.Ads != nil {
		return NewValidationError("ads", "only allowed when the source is an ads source")
	}

	if status.Kind == StatusKindRejected {
		if lead.Rejection == nil || lead.Rejection.ReasonID <= 0 {
			return NewValidationError("rejection.reason_id", "is required for rejected leads")
		}
	} else if lead.Rejection != nil {
		return NewValidationError("rejection", "only allowed when the status is a rejection")
	}

	return nil
}

// ReferenceKind names one of the master-data tables.
type ReferenceKind string

const (
	ReferenceStatuses         ReferenceKind = "statuses"
	ReferenceSources          ReferenceKind = "sources"
	ReferenceAdCodes          ReferenceKind = "ad_codes"
	ReferenceServices         ReferenceKind = "services"
	ReferenceFacilityTypes    ReferenceKind = "facility_types"
	ReferenceRejectionReasons ReferenceKind = "rejection_reasons"
	ReferenceAgents           ReferenceKind = "agents"
)

var referenceKinds = []ReferenceKind{
	ReferenceStatuses,
	ReferenceSources,
	ReferenceAdCodes,
	ReferenceServices,
	ReferenceFacilityTypes,
	ReferenceRejectionReasons,
	ReferenceAgents,
}

// ParseReferenceKind validates a kind taken from a URL.
func ParseReferenceKind(s string) (ReferenceKind, bool) {
	for _, k := range referenceKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ReferenceItem is a generic master-data row. Kind is only set for statuses.
type ReferenceItem struct {
	ID        int64      `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Kind      StatusKind `json:"kind,omitempty" db:"kind"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
