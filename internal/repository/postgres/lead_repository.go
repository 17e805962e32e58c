package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository"
	"github.com/jmoiron/sqlx"
)

var leadRelation = relation{
	columns: map[string]string{
		"id":                  "p.id",
		"created_date":        "p.created_date",
		"created_at":          "p.created_at",
		"name":                "p.name",
		"phone":               "p.phone",
		"facility_name":       "p.facility_name",
		"province":            "p.province",
		"city":                "p.city",
		"source_id":           "p.source_id",
		"service_id":          "p.service_id",
		"facility_type_id":    "p.facility_type_id",
		"status_id":           "p.status_id",
		"assigned_agent_id":   "p.assigned_agent_id",
		"ad_code_id":          "p.ad_code_id",
		"rejection_reason_id": "p.rejection_reason_id",
	},
	defaultSort: "p.created_at DESC, p.id DESC",
}

const leadSelect = `
        SELECT
            p.id,
            p.created_date,
            p.name,
            COALESCE(p.phone, '') AS phone,
            COALESCE(p.facility_name, '') AS facility_name,
            COALESCE(p.province, '') AS province,
            COALESCE(p.city, '') AS city,
            p.source_id,
            src.name AS source_name,
            p.service_id,
            COALESCE(svc.name, '') AS service_name,
            p.facility_type_id,
            COALESCE(ft.name, '') AS facility_type_name,
            p.status_id,
            st.label AS status_label,
            p.assigned_agent_id,
            COALESCE(ag.name, '') AS assigned_agent_name,
            p.ad_code_id,
            COALESCE(ac.name, '') AS ad_code_name,
            COALESCE(p.ad_id, '') AS ad_id,
            p.rejection_reason_id,
            COALESCE(rr.name, '') AS rejection_reason_name,
            COALESCE(p.rejection_note, '') AS rejection_note,
            COALESCE(p.notes, '') AS notes,
            COALESCE(p.created_by, '') AS created_by,
            p.created_at,
            p.updated_at
        FROM prospects p
        JOIN lead_sources src ON src.id = p.source_id
        JOIN lead_statuses st ON st.id = p.status_id
        LEFT JOIN services svc ON svc.id = p.service_id
        LEFT JOIN facility_types ft ON ft.id = p.facility_type_id
        LEFT JOIN agents ag ON ag.id = p.assigned_agent_id
        LEFT JOIN ad_codes ac ON ac.id = p.ad_code_id
        LEFT JOIN rejection_reasons rr ON rr.id = p.rejection_reason_id
        WHERE 1=1`

type leadRow struct {
	ID                  int64         `db:"id"`
	CreatedDate         time.Time     `db:"created_date"`
	Name                string        `db:"name"`
	Phone               string        `db:"phone"`
	FacilityName        string        `db:"facility_name"`
	Province            string        `db:"province"`
	City                string        `db:"city"`
	SourceID            int64         `db:"source_id"`
	SourceName          string        `db:"source_name"`
	ServiceID           sql.NullInt64 `db:"service_id"`
	ServiceName         string        `db:"service_name"`
	FacilityTypeID      sql.NullInt64 `db:"facility_type_id"`
	FacilityTypeName    string        `db:"facility_type_name"`
	StatusID            int64         `db:"status_id"`
	StatusLabel         string        `db:"status_label"`
	AssignedAgentID     sql.NullInt64 `db:"assigned_agent_id"`
	AssignedAgentName   string        `db:"assigned_agent_name"`
	AdCodeID            sql.NullInt64 `db:"ad_code_id"`
	AdCodeName          string        `db:"ad_code_name"`
	AdID                string        `db:"ad_id"`
	RejectionReasonID   sql.NullInt64 `db:"rejection_reason_id"`
	RejectionReasonName string        `db:"rejection_reason_name"`
	RejectionNote       string        `db:"rejection_note"`
	Notes               string        `db:"notes"`
	CreatedBy           string        `db:"created_by"`
	CreatedAt           time.Time     `db:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at"`
}

func (r leadRow) toDomain() domain.Lead {
	lead := domain.Lead{
		ID:                r.ID,
		CreatedDate:       r.CreatedDate,
		Name:              r.Name,
		Phone:             r.Phone,
		FacilityName:      r.FacilityName,
		Province:          r.Province,
		City:              r.City,
		SourceID:          r.SourceID,
		SourceName:        r.SourceName,
		ServiceID:         r.ServiceID.Int64,
		ServiceName:       r.ServiceName,
		FacilityTypeID:    r.FacilityTypeID.Int64,
		FacilityTypeName:  r.FacilityTypeName,
		StatusID:          r.StatusID,
		StatusLabel:       r.StatusLabel,
		AssignedAgentID:   r.AssignedAgentID.Int64,
		AssignedAgentName: r.AssignedAgentName,
		Notes:             r.Notes,
		CreatedBy:         r.CreatedBy,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.AdCodeID.Valid {
		lead.Ads = &domain.AdAttribution{AdCodeID: r.AdCodeID.Int64, AdCodeName: r.AdCodeName, AdID: r.AdID}
	}
	if r.RejectionReasonID.Valid {
		lead.Rejection = &domain.Rejection{ReasonID: r.RejectionReasonID.Int64, ReasonName: r.RejectionReasonName, Note: r.RejectionNote}
	}
	return lead
}

type recordRow struct {
	ID            int64     `db:"id"`
	CreatedDate   time.Time `db:"created_date"`
	StatusID      int64     `db:"status_id"`
	AdCodeID      int64     `db:"ad_code_id"`
	Source        string    `db:"source"`
	AdCode        string    `db:"ad_code"`
	Service       string    `db:"service"`
	FacilityType  string    `db:"facility_type"`
	City          string    `db:"city"`
	AssignedAgent string    `db:"assigned_agent"`
}

type leadRepository struct {
	db *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) repository.LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) ListRecords(ctx context.Context, start, end time.Time, agentID int64) ([]domain.LeadRecord, error) {
	query := `
        SELECT
            p.id,
            p.created_date,
            p.status_id,
            COALESCE(p.ad_code_id, 0) AS ad_code_id,
            COALESCE(src.name, '') AS source,
            COALESCE(ac.name, '') AS ad_code,
            COALESCE(svc.name, '') AS service,
            COALESCE(ft.name, '') AS facility_type,
            COALESCE(p.city, '') AS city,
            COALESCE(ag.name, '') AS assigned_agent
        FROM prospects p
        LEFT JOIN lead_sources src ON src.id = p.source_id
        LEFT JOIN ad_codes ac ON ac.id = p.ad_code_id
        LEFT JOIN services svc ON svc.id = p.service_id
        LEFT JOIN facility_types ft ON ft.id = p.facility_type_id
        LEFT JOIN agents ag ON ag.id = p.assigned_agent_id
        WHERE p.created_date >= $1 AND p.created_date < $2`

	args := []interface{}{start.Format(dateLayout), end.Format(dateLayout)}
	if agentID > 0 {
		query += " AND p.assigned_agent_id = $3"
		args = append(args, agentID)
	}
	query += " ORDER BY p.created_date, p.id"

	var rows []recordRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("error listing lead records: %w", err)
	}

	records := make([]domain.LeadRecord, len(rows))
	for i, row := range rows {
		records[i] = domain.LeadRecord{
			ID:          row.ID,
			CreatedDate: row.CreatedDate,
			StatusID:    row.StatusID,
			AdCodeID:    row.AdCodeID,
			Dimensions: domain.DimensionValues{
				Source:        row.Source,
				AdCode:        row.AdCode,
				Service:       row.Service,
				FacilityType:  row.FacilityType,
				City:          row.City,
				AssignedAgent: row.AssignedAgent,
			},
		}
	}
	return records, nil
}

func (r *leadRepository) List(ctx context.Context, q domain.ListQuery, agentID int64) ([]domain.Lead, int, error) {
	if agentID > 0 {
		q = q.Where("assigned_agent_id", domain.OpEq, agentID)
	}

	where, args, err := buildFilterClause(leadRelation, q.Filters, 1)
	if err != nil {
		return nil, 0, err
	}
	order, err := buildOrderClause(leadRelation, q.OrderBy, q.Descending)
	if err != nil {
		return nil, 0, err
	}
	limit, limitArgs, err := buildRangeClause(q, len(args)+1)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM prospects p WHERE 1=1" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("error counting leads: %w", err)
	}

	var rows []leadRow
	if err := r.db.SelectContext(ctx, &rows, leadSelect+where+order+limit, append(args, limitArgs...)...); err != nil {
		return nil, 0, fmt.Errorf("error listing leads: %w", err)
	}

	leads := make([]domain.Lead, len(rows))
	for i, row := range rows {
		leads[i] = row.toDomain()
	}
	return leads, total, nil
}

func (r *leadRepository) Get(ctx context.Context, id int64) (*domain.Lead, error) {
	var row leadRow
	if err := r.db.GetContext(ctx, &row, leadSelect+" AND p.id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("error getting lead %d: %w", id, err)
	}
	lead := row.toDomain()
	return &lead, nil
}

func (r *leadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	query := `
        INSERT INTO prospects (
            created_date, name, phone, facility_name, province, city,
            source_id, service_id, facility_type_id, status_id, assigned_agent_id,
            ad_code_id, ad_id, rejection_reason_id, rejection_note, notes, created_by
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING id, created_at, updated_at`

	args := append(leadWriteArgs(lead), nullIfEmpty(lead.CreatedBy))
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return translateWriteError("lead", err)
	}
	return nil
}

func (r *leadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	query := `
        UPDATE prospects SET
            created_date = $1,
            name = $2,
            phone = $3,
            facility_name = $4,
            province = $5,
            city = $6,
            source_id = $7,
            service_id = $8,
            facility_type_id = $9,
            status_id = $10,
            assigned_agent_id = $11,
            ad_code_id = $12,
            ad_id = $13,
            rejection_reason_id = $14,
            rejection_note = $15,
            notes = $16,
            updated_at = NOW()
        WHERE id = $17
        RETURNING updated_at`

	args := append(leadWriteArgs(lead), lead.ID)
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&lead.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return translateWriteError("lead", err)
	}
	return nil
}

func (r *leadRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM prospects WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting lead %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting lead %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// leadWriteArgs returns $1..$16 shared by insert and update.
func leadWriteArgs(lead *domain.Lead) []interface{} {
	var (
		adCodeID  int64
		adID      string
		reasonID  int64
		rejectTxt string
	)
	if lead.Ads != nil {
		adCodeID, adID = lead.Ads.AdCodeID, lead.Ads.AdID
	}
	if lead.Rejection != nil {
		reasonID, rejectTxt = lead.Rejection.ReasonID, lead.Rejection.Note
	}

	return []interface{}{
		lead.CreatedDate.Format(dateLayout),
		lead.Name,
		nullIfEmpty(lead.Phone),
		nullIfEmpty(lead.FacilityName),
		nullIfEmpty(lead.Province),
		nullIfEmpty(lead.City),
		lead.SourceID,
		nullIfZero(lead.ServiceID),
		nullIfZero(lead.FacilityTypeID),
		lead.StatusID,
		nullIfZero(lead.AssignedAgentID),
		nullIfZero(adCodeID),
		nullIfEmpty(adID),
		nullIfZero(reasonID),
		nullIfEmpty(rejectTxt),
		nullIfEmpty(lead.Notes),
	}
}
