package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/DAREDEVILDD7/trolley-appointment/internal/booking"
	"github.com/DAREDEVILDD7/trolley-appointment/internal/model"
)

// BookingRepo provides data access to the bookings table.  It implements
// booking.Store: the table carries unique keys on token_seq and
// transaction_id, which turn the engine's "propose max+1" insert into a
// conditional commit.  When a concurrent writer committed the same
// sequence number (or the same millisecond transaction ID) first, MySQL
// rejects the insert with a duplicate-key error and the repo reports
// booking.ErrSequenceConflict so the engine retries.  All timestamps are
// stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL duplicate-key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// LastTokenSeq returns the highest committed token sequence number, or 0
// when no booking exists.  token_seq is indexed, so this is a single
// ordered lookup rather than a table scan.
func (r *BookingRepo) LastTokenSeq(ctx context.Context) (uint64, error) {
	var last uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(token_seq), 0) FROM bookings`,
	).Scan(&last)
	if err != nil {
		return 0, err
	}
	return last, nil
}

// Create inserts the booking.  The insert either commits the whole record
// or nothing: a duplicate token_seq or transaction_id aborts it and is
// surfaced as booking.ErrSequenceConflict for the engine's retry loop.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (transaction_id, token_no, token_seq, supplier_ref, slot_descriptor, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		b.TransactionID, b.TokenNo, b.TokenSeq, b.SupplierRef, b.SlotDescriptor,
		b.CreatedAt.UTC().Format("2006-01-02 15:04:05.000"),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("token_seq %d: %w", b.TokenSeq, booking.ErrSequenceConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// ListBySupplier returns all bookings created by the given supplier,
// newest first.  When the supplier has no bookings, an empty slice is
// returned.
func (r *BookingRepo) ListBySupplier(ctx context.Context, supplierID string) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, transaction_id, token_no, token_seq, supplier_ref, slot_descriptor, created_at
         FROM bookings
         WHERE supplier_ref = ?
         ORDER BY id DESC`,
		supplierID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		var createdAt time.Time
		if err := rows.Scan(&b.ID, &b.TransactionID, &b.TokenNo, &b.TokenSeq,
			&b.SupplierRef, &b.SlotDescriptor, &createdAt); err != nil {
			return nil, err
		}
		b.CreatedAt = createdAt.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
