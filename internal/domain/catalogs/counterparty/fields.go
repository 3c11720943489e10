package counterparty

import (
	"recordbase/internal/query"
)

// fields is the query-engine whitelist for the Counterparty catalog. Only
// names declared here are filterable, sortable or includable; the engine
// never touches anything else. Built once at package init and read-only
// afterwards.
var fields = query.NewRegistry[Counterparty]().
	Field("code", query.String("code", func(c Counterparty) any { return c.Code })).
	Field("name", query.String("name", func(c Counterparty) any { return c.Name })).
	Field("type", query.Enum("type", typeNames, func(c Counterparty) any { return string(c.Type) })).
	Field("status", query.Enum("status", statusNames, func(c Counterparty) any { return string(c.Status) })).
	Field("creditLimit", query.Decimal("credit_limit", func(c Counterparty) any { return c.CreditLimit })).
	Field("createdAt", query.Time("created_at", func(c Counterparty) any { return c.CreatedAt })).
	Sortable("updatedAt", query.Time("updated_at", func(c Counterparty) any { return c.UpdatedAt })).
	Filterable("id", query.UUID("id", func(c Counterparty) any { return c.ID })).
	Filterable("taxId", query.String("tax_id", func(c Counterparty) any {
		if c.TaxID == nil {
			return nil
		}
		return *c.TaxID
	})).
	Filterable("email", query.String("email", func(c Counterparty) any {
		if c.Email == nil {
			return nil
		}
		return *c.Email
	})).
	Filterable("deletionMark", query.Bool("deletion_mark", func(c Counterparty) any { return c.DeletionMark })).
	Includes("bankAccounts").
	SearchOn("name").
	DefaultSort("createdAt")

// Fields returns the catalog's field registry.
func Fields() *query.Registry[Counterparty] {
	return fields
}
