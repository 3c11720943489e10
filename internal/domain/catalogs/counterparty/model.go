// Package counterparty provides the Counterparty catalog.
// Counterparties represent business partners: customers, suppliers, etc.
package counterparty

import (
	"context"
	"regexp"
	"time"

	"recordbase/internal/core/apperror"
	"recordbase/internal/core/id"
	"recordbase/internal/core/types"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Type defines the type of counterparty.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
	TypeBoth     Type = "both"
	TypeOther    Type = "other"
)

// Status defines the lifecycle status of a counterparty.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusArchived  Status = "archived"
)

// typeNames and statusNames are the canonical enum spellings exposed to the
// query engine.
var (
	typeNames   = []string{"customer", "supplier", "both", "other"}
	statusNames = []string{"active", "suspended", "archived"}
)

// BankAccount is a bank account attached to a counterparty, loaded on demand
// via the bankAccounts include hint.
type BankAccount struct {
	ID             id.ID  `db:"id" json:"id"`
	CounterpartyID id.ID  `db:"counterparty_id" json:"counterpartyId"`
	IBAN           string `db:"iban" json:"iban"`
	BankName       string `db:"bank_name" json:"bankName"`
	Currency       string `db:"currency" json:"currency"`
}

// Counterparty represents a business partner (customer, supplier, etc.).
type Counterparty struct {
	ID   id.ID  `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`

	Type   Type   `db:"type" json:"type"`
	Status Status `db:"status" json:"status"`

	// CreditLimit is the maximum outstanding balance allowed, in the
	// tenant's base currency.
	CreditLimit types.Money `db:"credit_limit" json:"creditLimit"`

	// TaxID is the tax identification number, unique within a tenant.
	TaxID *string `db:"tax_id" json:"taxId,omitempty"`

	Email *string `db:"email" json:"email,omitempty"`
	Phone *string `db:"phone" json:"phone,omitempty"`

	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`
	Version      int  `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// BankAccounts is populated only when the bankAccounts include hint is
	// requested.
	BankAccounts []BankAccount `db:"-" json:"bankAccounts,omitempty"`
}

// New creates a new Counterparty with required fields.
func New(code, name string, cpType Type) *Counterparty {
	now := time.Now().UTC()
	return &Counterparty{
		ID:          id.New(),
		Code:        code,
		Name:        name,
		Type:        cpType,
		Status:      StatusActive,
		CreditLimit: types.Zero(),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks invariants before persistence.
func (c *Counterparty) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if !isValidType(c.Type) {
		return apperror.NewValidation("invalid counterparty type").
			WithDetail("field", "type").
			WithDetail("value", string(c.Type))
	}

	if !isValidStatus(c.Status) {
		return apperror.NewValidation("invalid status").
			WithDetail("field", "status").
			WithDetail("value", string(c.Status))
	}

	if c.CreditLimit.IsNegative() {
		return apperror.NewValidation("credit limit cannot be negative").
			WithDetail("field", "creditLimit").
			WithDetail("value", c.CreditLimit.String())
	}

	if c.Email != nil && *c.Email != "" && !emailRE.MatchString(*c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	return nil
}

// IsCustomer returns true if counterparty is a customer.
func (c *Counterparty) IsCustomer() bool {
	return c.Type == TypeCustomer || c.Type == TypeBoth
}

// IsSupplier returns true if counterparty is a supplier.
func (c *Counterparty) IsSupplier() bool {
	return c.Type == TypeSupplier || c.Type == TypeBoth
}

func isValidType(t Type) bool {
	switch t {
	case TypeCustomer, TypeSupplier, TypeBoth, TypeOther:
		return true
	}
	return false
}

func isValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusArchived:
		return true
	}
	return false
}
