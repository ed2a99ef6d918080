package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/model"
)

// SupplierRepo provides data access to the suppliers table.  Suppliers
// are onboarded out-of-band through tooling; the service itself only
// looks them up during login.
type SupplierRepo struct{ db *sql.DB }

// NewSupplierRepo returns a new SupplierRepo bound to the given database.
func NewSupplierRepo(db *sql.DB) *SupplierRepo { return &SupplierRepo{db: db} }

// Create inserts a supplier row.  It exists for onboarding tooling; the
// service never creates suppliers at request time.
func (r *SupplierRepo) Create(ctx context.Context, s model.Supplier) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO suppliers (id, name, company_name, secret_hash, is_active)
         VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(s.ID), s.Name, s.CompanyName, s.SecretHash, s.IsActive,
	)
	return err
}

// GetByID fetches a supplier by its identifier.  sql.ErrNoRows is
// returned when no supplier with the given id exists.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (model.Supplier, error) {
	id = strings.TrimSpace(id)
	var s model.Supplier
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, company_name, secret_hash, is_active, created_at
         FROM suppliers WHERE id = ? LIMIT 1`,
		id,
	).Scan(&s.ID, &s.Name, &s.CompanyName, &s.SecretHash, &s.IsActive, &s.CreatedAt)
	return s, err
}
