package counterparty

import (
	"context"

	"recordbase/internal/core/id"
	"recordbase/internal/query"
)

// Repository defines the interface for Counterparty persistence.
type Repository interface {
	// Create inserts a new counterparty.
	Create(ctx context.Context, cp *Counterparty) error

	// GetByID retrieves counterparty by ID.
	GetByID(ctx context.Context, id id.ID) (*Counterparty, error)

	// Update modifies existing counterparty (with optimistic locking).
	Update(ctx context.Context, cp *Counterparty) error

	// SetDeletionMark sets or clears the deletion mark (soft delete).
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	// Search runs one dynamic list query through the query engine.
	Search(ctx context.Context, p query.Params) (query.Page[Counterparty], error)

	// ExistsByTaxID checks if a live counterparty uses the tax ID.
	ExistsByTaxID(ctx context.Context, taxID string) (bool, error)
}
