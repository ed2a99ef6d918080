package model

import "time"

// Supplier represents a registered supplier as stored in the `suppliers`
// table.  Suppliers are created out-of-band (procurement onboarding); the
// service only ever reads them, during login.  The json tags are omitted
// because these structs are used by the repository layer; handlers define
// separate response types.
//
// Fields:
//  ID          – unique supplier identifier (primary key, assigned at onboarding).
//  Name        – display name of the contact person.
//  CompanyName – supplier company name shown after login.
//  SecretHash  – bcrypt hash of the supplier's credential secret.
//  IsActive    – whether the account may log in.
//  CreatedAt   – timestamp of creation.
type Supplier struct {
	ID          string    // suppliers.id
	Name        string    // suppliers.name
	CompanyName string    // suppliers.company_name
	SecretHash  string    // suppliers.secret_hash
	IsActive    bool      // suppliers.is_active
	CreatedAt   time.Time // suppliers.created_at
}
