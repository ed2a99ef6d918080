package model

import "time"

// Booking records a single issued queue token.  Rows are created exactly
// once by the token sequencer when a booking commits and are never mutated
// or deleted afterwards; cancellation and expiry are out of scope.
//
// TokenSeq carries the numeric suffix of TokenNo and holds a unique key in
// the database.  That key is what makes allocation safe: two writers that
// observed the same current maximum propose the same TokenSeq, and the
// second insert fails instead of issuing a duplicate token.
//
// Fields:
//  ID             – primary key (insertion order).
//  TransactionID  – timestamp-derived identifier, format "T" + ddmmyyyyHHMMSSmmm.
//  TokenNo        – queue token shown to the supplier, format "O<n>".
//  TokenSeq       – numeric suffix of TokenNo; strictly increasing, unique.
//  SupplierRef    – supplier the token belongs to.
//  SlotDescriptor – canonical "ddmmyyyyHHMMHHMM" encoding of the chosen slot.
//  CreatedAt      – allocation timestamp (UTC).
type Booking struct {
	ID             uint64    // bookings.id
	TransactionID  string    // bookings.transaction_id
	TokenNo        string    // bookings.token_no
	TokenSeq       uint64    // bookings.token_seq
	SupplierRef    string    // bookings.supplier_ref
	SlotDescriptor string    // bookings.slot_descriptor
	CreatedAt      time.Time // bookings.created_at
}

// Session models an entry in the `sessions` table.  Each session belongs
// to a supplier and stores only the SHA-256 hash of the refresh token, so
// a leaked table cannot be replayed.
//
// Fields:
//  ID        – primary key identifier.
//  SupplierID – owner of the session.
//  TokenHash – SHA-256 hex digest of the refresh token value.
//  ExpiresAt – expiration timestamp of the session.
//  RevokedAt – when the session was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type Session struct {
	ID         uint64     // sessions.id
	SupplierID string     // sessions.supplier_id
	TokenHash  string     // sessions.token_hash
	ExpiresAt  time.Time  // sessions.expires_at
	RevokedAt  *time.Time // sessions.revoked_at (nullable)
	CreatedAt  time.Time  // sessions.created_at
}
