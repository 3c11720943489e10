package counterparty

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordbase/internal/core/apperror"
	"recordbase/internal/core/id"
	"recordbase/internal/core/numerator"
	"recordbase/internal/core/types"
	"recordbase/internal/query"
)

type fakeRepo struct {
	created    []*Counterparty
	taxIDTaken bool
}

func (f *fakeRepo) Create(ctx context.Context, cp *Counterparty) error {
	f.created = append(f.created, cp)
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, cpID id.ID) (*Counterparty, error) {
	return nil, apperror.NewNotFound("counterparty", cpID)
}

func (f *fakeRepo) Update(ctx context.Context, cp *Counterparty) error { return nil }

func (f *fakeRepo) SetDeletionMark(ctx context.Context, cpID id.ID, marked bool) error { return nil }

func (f *fakeRepo) Search(ctx context.Context, p query.Params) (query.Page[Counterparty], error) {
	return query.Page[Counterparty]{}, nil
}

func (f *fakeRepo) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	return f.taxIDTaken, nil
}

func newTestService(repo *fakeRepo) *Service {
	gen := &numerator.MockGenerator{
		GetNextNumberFunc: func(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
			return cfg.Prefix + "-2026-00042", nil
		},
	}
	return NewService(repo, gen)
}

func TestCreate_GeneratesCodeWhenEmpty(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	cp := New("", "Acme GmbH", TypeCustomer)
	require.NoError(t, svc.Create(context.Background(), cp))

	assert.Equal(t, "CP-2026-00042", cp.Code)
	require.Len(t, repo.created, 1)
}

func TestCreate_KeepsExplicitCode(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	cp := New("CUST-7", "Acme GmbH", TypeSupplier)
	require.NoError(t, svc.Create(context.Background(), cp))

	assert.Equal(t, "CUST-7", cp.Code)
}

func TestCreate_RejectsDuplicateTaxID(t *testing.T) {
	repo := &fakeRepo{taxIDTaken: true}
	svc := newTestService(repo)

	taxID := "DE123456789"
	cp := New("", "Acme GmbH", TypeCustomer)
	cp.TaxID = &taxID

	err := svc.Create(context.Background(), cp)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestCreate_RejectsInvalidEntity(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	cp := New("", "", TypeCustomer)

	err := svc.Create(context.Background(), cp)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Counterparty)
		wantErr bool
	}{
		{"valid", func(cp *Counterparty) {}, false},
		{"bad type", func(cp *Counterparty) { cp.Type = "vendor" }, true},
		{"bad status", func(cp *Counterparty) { cp.Status = "paused" }, true},
		{"negative credit limit", func(cp *Counterparty) { cp.CreditLimit = types.MustMoney("-1") }, true},
		{"bad email", func(cp *Counterparty) { e := "not-an-email"; cp.Email = &e }, true},
		{"valid email", func(cp *Counterparty) { e := "billing@acme.example"; cp.Email = &e }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := New("C-1", "Acme GmbH", TypeBoth)
			tt.mutate(cp)

			err := cp.Validate(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
