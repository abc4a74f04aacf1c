package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `
	id, tenant_id, name, email, phone, job_title, company, company_size,
	industry, country, source,
	email_opens, email_clicks, website_visits, form_submissions,
	content_downloads, meetings_attended,
	last_activity_at, score, grade, created_at, updated_at`

func scanLead(row pgx.Row) (domain.Lead, error) {
	var l domain.Lead
	err := row.Scan(
		&l.ID, &l.TenantID, &l.Name, &l.Email, &l.Phone, &l.JobTitle, &l.Company, &l.CompanySize,
		&l.Industry, &l.Country, &l.Source,
		&l.EmailOpens, &l.EmailClicks, &l.WebsiteVisits, &l.FormSubmissions,
		&l.ContentDownloads, &l.MeetingsAttended,
		&l.LastActivityAt, &l.Score, &l.Grade, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

func (r *Repository) GetByID(ctx context.Context, leadID, tenantID uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND tenant_id = $2
	`, leadID, tenantID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, ErrNotFound
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead: %w", err)
	}
	return lead, nil
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE tenant_id = $1
		ORDER BY created_at ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return leads, nil
}

func (r *Repository) ListInteractions(ctx context.Context, leadID, tenantID uuid.UUID) ([]domain.Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.lead_id, i.kind, i.note, i.occurred_at
		FROM lead_interactions i
		JOIN leads l ON l.id = i.lead_id
		WHERE i.lead_id = $1 AND l.tenant_id = $2
		ORDER BY i.occurred_at DESC
	`, leadID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	return collectInteractions(rows)
}

func (r *Repository) ListInteractionsForLeads(ctx context.Context, leadIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Interaction, error) {
	if len(leadIDs) == 0 {
		return map[uuid.UUID][]domain.Interaction{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.lead_id, i.kind, i.note, i.occurred_at
		FROM lead_interactions i
		JOIN leads l ON l.id = i.lead_id
		WHERE i.lead_id = ANY($1) AND l.tenant_id = $2
		ORDER BY i.occurred_at DESC
	`, leadIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list interactions for leads: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Interaction)
	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(&in.ID, &in.LeadID, &in.Kind, &in.Note, &in.OccurredAt); err != nil {
			return nil, err
		}
		out[in.LeadID] = append(out[in.LeadID], in)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) UpdateScore(ctx context.Context, leadID, tenantID uuid.UUID, score float64, grade string, version string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET score = $3, grade = $4, score_version = $5, scored_at = $6, updated_at = $6
		WHERE id = $1 AND tenant_id = $2
	`, leadID, tenantID, score, grade, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update lead score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectInteractions(rows pgx.Rows) ([]domain.Interaction, error) {
	items := make([]domain.Interaction, 0)
	for rows.Next() {
		var in domain.Interaction
		if err := rows.Scan(&in.ID, &in.LeadID, &in.Kind, &in.Note, &in.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, in)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
