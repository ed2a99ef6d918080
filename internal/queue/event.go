// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a queue token has been issued.
// It contains enough information for downstream consumers to audit the
// issued token without querying the primary database.
type BookingCreatedEvent struct {
	TokenNo        string `json:"token_no"`
	TransactionID  string `json:"transaction_id"`
	SupplierID     string `json:"supplier_id"`
	SlotDescriptor string `json:"slot_descriptor"`
	CreatedAt      string `json:"created_at"`
}
