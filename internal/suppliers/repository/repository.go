package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backoffice_backend/internal/suppliers/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("supplier not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const supplierColumns = `
	id, tenant_id, name, email, phone, country, score, grade, created_at, updated_at`

func scanSupplier(row pgx.Row) (domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(
		&s.ID, &s.TenantID, &s.Name, &s.Email, &s.Phone, &s.Country,
		&s.Score, &s.Grade, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *Repository) GetByID(ctx context.Context, supplierID, tenantID uuid.UUID) (domain.Supplier, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE id = $1 AND tenant_id = $2
	`, supplierID, tenantID)

	supplier, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Supplier{}, ErrNotFound
	}
	if err != nil {
		return domain.Supplier{}, fmt.Errorf("get supplier: %w", err)
	}
	return supplier, nil
}

func (r *Repository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE tenant_id = $1
		ORDER BY created_at ASC, id ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0)
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return suppliers, nil
}

func (r *Repository) ListOrders(ctx context.Context, supplierID, tenantID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.supplier_id, o.promised_at, o.delivered_at
		FROM supplier_orders o
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.supplier_id = $1 AND s.tenant_id = $2
		ORDER BY o.promised_at DESC
	`, supplierID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list supplier orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.PromisedAt, &o.DeliveredAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return orders, nil
}

func (r *Repository) ListInquiries(ctx context.Context, supplierID, tenantID uuid.UUID) ([]domain.Inquiry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.supplier_id, q.sent_at, q.responded_at
		FROM supplier_inquiries q
		JOIN suppliers s ON s.id = q.supplier_id
		WHERE q.supplier_id = $1 AND s.tenant_id = $2
		ORDER BY q.sent_at DESC
	`, supplierID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list supplier inquiries: %w", err)
	}
	defer rows.Close()

	inquiries := make([]domain.Inquiry, 0)
	for rows.Next() {
		var q domain.Inquiry
		if err := rows.Scan(&q.ID, &q.SupplierID, &q.SentAt, &q.RespondedAt); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, q)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return inquiries, nil
}

func (r *Repository) ListDocuments(ctx context.Context, supplierID, tenantID uuid.UUID) ([]domain.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.supplier_id, d.kind, d.valid_until
		FROM supplier_documents d
		JOIN suppliers s ON s.id = d.supplier_id
		WHERE d.supplier_id = $1 AND s.tenant_id = $2
		ORDER BY d.kind ASC
	`, supplierID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list supplier documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.SupplierID, &d.Kind, &d.ValidUntil); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return docs, nil
}

func (r *Repository) ListOrdersForSuppliers(ctx context.Context, supplierIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Order, error) {
	if len(supplierIDs) == 0 {
		return map[uuid.UUID][]domain.Order{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.supplier_id, o.promised_at, o.delivered_at
		FROM supplier_orders o
		JOIN suppliers s ON s.id = o.supplier_id
		WHERE o.supplier_id = ANY($1) AND s.tenant_id = $2
		ORDER BY o.promised_at DESC
	`, supplierIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list orders for suppliers: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Order)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.SupplierID, &o.PromisedAt, &o.DeliveredAt); err != nil {
			return nil, err
		}
		out[o.SupplierID] = append(out[o.SupplierID], o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) ListInquiriesForSuppliers(ctx context.Context, supplierIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Inquiry, error) {
	if len(supplierIDs) == 0 {
		return map[uuid.UUID][]domain.Inquiry{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.supplier_id, q.sent_at, q.responded_at
		FROM supplier_inquiries q
		JOIN suppliers s ON s.id = q.supplier_id
		WHERE q.supplier_id = ANY($1) AND s.tenant_id = $2
		ORDER BY q.sent_at DESC
	`, supplierIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list inquiries for suppliers: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Inquiry)
	for rows.Next() {
		var q domain.Inquiry
		if err := rows.Scan(&q.ID, &q.SupplierID, &q.SentAt, &q.RespondedAt); err != nil {
			return nil, err
		}
		out[q.SupplierID] = append(out[q.SupplierID], q)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) ListDocumentsForSuppliers(ctx context.Context, supplierIDs []uuid.UUID, tenantID uuid.UUID) (map[uuid.UUID][]domain.Document, error) {
	if len(supplierIDs) == 0 {
		return map[uuid.UUID][]domain.Document{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.supplier_id, d.kind, d.valid_until
		FROM supplier_documents d
		JOIN suppliers s ON s.id = d.supplier_id
		WHERE d.supplier_id = ANY($1) AND s.tenant_id = $2
		ORDER BY d.kind ASC
	`, supplierIDs, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list documents for suppliers: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]domain.Document)
	for rows.Next() {
		var d domain.Document
		if err := rows.Scan(&d.ID, &d.SupplierID, &d.Kind, &d.ValidUntil); err != nil {
			return nil, err
		}
		out[d.SupplierID] = append(out[d.SupplierID], d)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *Repository) UpdateScore(ctx context.Context, supplierID, tenantID uuid.UUID, score float64, grade string, version string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE suppliers
		SET score = $3, grade = $4, score_version = $5, scored_at = $6, updated_at = $6
		WHERE id = $1 AND tenant_id = $2
	`, supplierID, tenantID, score, grade, version, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update supplier score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
