package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice_backend/internal/deals/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("deal not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const dealColumns = `
	id, tenant_id, name, stage, value_cents, currency, owner_id,
	stage_entered_at, last_activity_at, expected_close_at,
	health_score, created_at, updated_at`

func scanDeal(row pgx.Row) (domain.Deal, error) {
	var d domain.Deal
	err := row.Scan(
		&d.ID, &d.TenantID, &d.Name, &d.Stage, &d.ValueCents, &d.Currency, &d.OwnerID,
		&d.StageEnteredAt, &d.LastActivityAt, &d.ExpectedClose,
		&d.HealthScore, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func (r *Repository) GetByID(ctx context.Context, dealID, tenantID uuid.UUID) (domain.Deal, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE id = $1 AND tenant_id = $2
	`, dealID, tenantID)

	deal, err := scanDeal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Deal{}, ErrNotFound
	}
	if err != nil {
		return domain.Deal{}, fmt.Errorf("get deal: %w", err)
	}
	return deal, nil
}

// ListOpenByTenant returns deals still in the pipeline, oldest first so
// batch input order is stable across runs.
func (r *Repository) ListOpenByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Deal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dealColumns+`
		FROM deals
		WHERE tenant_id = $1 AND closed_at IS NULL
		ORDER BY created_at ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list open deals: %w", err)
	}
	defer rows.Close()

	deals := make([]domain.Deal, 0)
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return deals, nil
}

func (r *Repository) ListActivities(ctx context.Context, dealID, tenantID uuid.UUID) ([]domain.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.deal_id, a.kind, a.note, a.occurred_at
		FROM deal_activities a
		JOIN deals d ON d.id = a.deal_id
		WHERE a.deal_id = $1 AND d.tenant_id = $2
		ORDER BY a.occurred_at DESC
	`, dealID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list deal activities: %w", err)
	}
	defer rows.Close()

	return collectActivities(rows)
}

func (r *Repository) ListActivitiesForDeals(ctx context.Context, dealIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Activity, error) {
	if len(dealIDs) == 0 {
		return map[uuid.UUID][]domain.Activity{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.deal_id, a.kind, a.note, a.occurred_at
		FROM deal_activities a
		JOIN deals d ON d.id = a.deal_id
		WHERE a.deal_id = ANY($1) AND d.tenant_id = $2
		ORDER BY a.occurred_at DESC
	`, dealIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list activities for deals: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Activity)
	for rows.Next() {
		var act domain.Activity
		if err := rows.Scan(&act.ID, &act.DealID, &act.Kind, &act.Note, &act.OccurredAt); err != nil {
			return nil, err
		}
		out[act.DealID] = append(out[act.DealID], act)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) ListStageHistory(ctx context.Context, dealID, tenantID uuid.UUID) ([]domain.StageEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.deal_id, h.stage, h.entered_at, h.exited_at
		FROM deal_stage_history h
		JOIN deals d ON d.id = h.deal_id
		WHERE h.deal_id = $1 AND d.tenant_id = $2
		ORDER BY h.entered_at ASC
	`, dealID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stage history: %w", err)
	}
	defer rows.Close()

	return collectStageEntries(rows)
}

func (r *Repository) ListStageHistoryForDeals(ctx context.Context, dealIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.StageEntry, error) {
	if len(dealIDs) == 0 {
		return map[uuid.UUID][]domain.StageEntry{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT h.id, h.deal_id, h.stage, h.entered_at, h.exited_at
		FROM deal_stage_history h
		JOIN deals d ON d.id = h.deal_id
		WHERE h.deal_id = ANY($1) AND d.tenant_id = $2
		ORDER BY h.entered_at ASC
	`, dealIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stage history for deals: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.StageEntry)
	for rows.Next() {
		var entry domain.StageEntry
		if err := rows.Scan(&entry.ID, &entry.DealID, &entry.Stage, &entry.EnteredAt, &entry.ExitedAt); err != nil {
			return nil, err
		}
		out[entry.DealID] = append(out[entry.DealID], entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) UpdateHealth(ctx context.Context, dealID, tenantID uuid.UUID, score float64, status string, version string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE deals
		SET health_score = $3, health_status = $4, score_version = $5, scored_at = $6, updated_at = $6
		WHERE id = $1 AND tenant_id = $2
	`, dealID, tenantID, score, status, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update deal health: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectActivities(rows pgx.Rows) ([]domain.Activity, error) {
	items := make([]domain.Activity, 0)
	for rows.Next() {
		var act domain.Activity
		if err := rows.Scan(&act.ID, &act.DealID, &act.Kind, &act.Note, &act.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, act)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func collectStageEntries(rows pgx.Rows) ([]domain.StageEntry, error) {
	items := make([]domain.StageEntry, 0)
	for rows.Next() {
		var entry domain.StageEntry
		if err := rows.Scan(&entry.ID, &entry.DealID, &entry.Stage, &entry.EnteredAt, &entry.ExitedAt); err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}
