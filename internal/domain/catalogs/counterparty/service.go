package counterparty

import (
	"context"
	"time"

	"recordbase/internal/core/apperror"
	"recordbase/internal/core/id"
	"recordbase/internal/core/numerator"
	"recordbase/internal/query"
	"recordbase/pkg/logger"
)

// Service provides business logic for the Counterparty catalog.
type Service struct {
	repo  Repository
	codes numerator.Generator
}

// NewService creates a new Counterparty service.
func NewService(repo Repository, codes numerator.Generator) *Service {
	return &Service{repo: repo, codes: codes}
}

// Create validates and persists a new counterparty. An empty code is
// auto-generated from the CP sequence.
func (s *Service) Create(ctx context.Context, cp *Counterparty) error {
	if err := cp.Validate(ctx); err != nil {
		return err
	}

	if cp.Code == "" {
		code, err := s.codes.GetNextNumber(ctx, numerator.DefaultConfig("CP"), nil, time.Now())
		if err != nil {
			return apperror.NewInternal(err)
		}
		cp.Code = code
	}

	if cp.TaxID != nil && *cp.TaxID != "" {
		exists, err := s.repo.ExistsByTaxID(ctx, *cp.TaxID)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("counterparty", "taxId", *cp.TaxID)
		}
	}

	if err := s.repo.Create(ctx, cp); err != nil {
		return err
	}

	logger.Info(ctx, "counterparty created", "id", cp.ID, "code", cp.Code)
	return nil
}

// GetByID retrieves a counterparty.
func (s *Service) GetByID(ctx context.Context, cpID id.ID) (*Counterparty, error) {
	return s.repo.GetByID(ctx, cpID)
}

// Update validates and persists changes to an existing counterparty.
func (s *Service) Update(ctx context.Context, cp *Counterparty) error {
	if err := cp.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, cp)
}

// SetDeletionMark sets or clears the deletion mark.
func (s *Service) SetDeletionMark(ctx context.Context, cpID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, cpID, marked)
}

// Search runs a dynamic list query.
func (s *Service) Search(ctx context.Context, p query.Params) (query.Page[Counterparty], error) {
	return s.repo.Search(ctx, p)
}
