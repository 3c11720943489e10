// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories. List queries go through the dynamic query engine; the
// repository's job is to supply the source, the fixed scoping conditions and
// the eager-load functions.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"recordbase/internal/core/apperror"
	"recordbase/internal/core/id"
	"recordbase/internal/domain/catalogs/counterparty"
	"recordbase/internal/infrastructure/storage/postgres"
	"recordbase/internal/query"
)

var counterpartyCols = []string{
	"id", "code", "name", "type", "status", "credit_limit",
	"tax_id", "email", "phone", "deletion_mark", "version",
	"created_at", "updated_at",
}

// CounterpartyRepo is the PostgreSQL counterparty repository.
type CounterpartyRepo struct {
	db postgres.Querier
}

// NewCounterpartyRepo creates a new repository over a pool or transaction.
func NewCounterpartyRepo(db postgres.Querier) *CounterpartyRepo {
	return &CounterpartyRepo{db: db}
}

func (r *CounterpartyRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// source builds the base queryable source for one request: live rows only,
// with the bankAccounts relation available behind an include hint.
func (r *CounterpartyRepo) source() *postgres.TableSource[counterparty.Counterparty] {
	return postgres.NewTableSource[counterparty.Counterparty](r.db, "counterparties", counterpartyCols).
		WithPreload("bankAccounts", r.preloadBankAccounts).
		Where(squirrel.Eq{"deletion_mark": false})
}

// Search runs one dynamic list query through a fresh single-use builder.
func (r *CounterpartyRepo) Search(ctx context.Context, p query.Params) (query.Page[counterparty.Counterparty], error) {
	src := r.source()
	return query.NewBuilder[counterparty.Counterparty]().
		Source(src).
		Registry(counterparty.Fields()).
		Params(p).
		Include(src.ApplyInclude()).
		Execute(ctx)
}

// Create inserts a new counterparty.
func (r *CounterpartyRepo) Create(ctx context.Context, cp *counterparty.Counterparty) error {
	q := r.builder().
		Insert("counterparties").
		Columns(counterpartyCols...).
		Values(
			cp.ID, cp.Code, cp.Name, cp.Type, cp.Status, cp.CreditLimit,
			cp.TaxID, cp.Email, cp.Phone, cp.DeletionMark, cp.Version,
			cp.CreatedAt, cp.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert counterparty: %w", err)
	}
	return nil
}

// GetByID retrieves a counterparty by ID.
func (r *CounterpartyRepo) GetByID(ctx context.Context, cpID id.ID) (*counterparty.Counterparty, error) {
	q := r.builder().
		Select(counterpartyCols...).
		From("counterparties").
		Where(squirrel.Eq{"id": cpID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var cp counterparty.Counterparty
	if err := pgxscan.Get(ctx, r.db, &cp, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("counterparty", cpID.String())
		}
		return nil, fmt.Errorf("get by id: %w", err)
	}
	return &cp, nil
}

// Update modifies an existing counterparty with optimistic locking.
func (r *CounterpartyRepo) Update(ctx context.Context, cp *counterparty.Counterparty) error {
	q := r.builder().
		Update("counterparties").
		Set("code", cp.Code).
		Set("name", cp.Name).
		Set("type", cp.Type).
		Set("status", cp.Status).
		Set("credit_limit", cp.CreditLimit).
		Set("tax_id", cp.TaxID).
		Set("email", cp.Email).
		Set("phone", cp.Phone).
		Set("deletion_mark", cp.DeletionMark).
		Set("updated_at", cp.UpdatedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": cp.ID}).
		Where(squirrel.Eq{"version": cp.Version}). // optimistic lock: expect current version
		Suffix("RETURNING version")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	var version int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&version); err != nil {
		if err == pgx.ErrNoRows {
			return apperror.NewConcurrentModification("counterparty", cp.ID)
		}
		return fmt.Errorf("update counterparty: %w", err)
	}
	cp.Version = version
	return nil
}

// SetDeletionMark sets or clears the deletion mark (soft delete).
func (r *CounterpartyRepo) SetDeletionMark(ctx context.Context, cpID id.ID, marked bool) error {
	q := r.builder().
		Update("counterparties").
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": cpID}).
		Suffix("RETURNING version")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set deletion mark: %w", err)
	}

	var version int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&version); err != nil {
		if err == pgx.ErrNoRows {
			return apperror.NewNotFound("counterparty", cpID.String())
		}
		return fmt.Errorf("set deletion mark: %w", err)
	}
	return nil
}

// ExistsByTaxID checks if a live counterparty uses the tax ID.
func (r *CounterpartyRepo) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	q := r.builder().
		Select("1").
		From("counterparties").
		Where(squirrel.Eq{"tax_id": taxID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by tax id: %w", err)
	}
	return true, nil
}

// preloadBankAccounts loads bank accounts for a materialized page and
// attaches them to their owners.
func (r *CounterpartyRepo) preloadBankAccounts(ctx context.Context, items []counterparty.Counterparty) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]id.ID, len(items))
	for i, cp := range items {
		ids[i] = cp.ID
	}

	q := r.builder().
		Select("id", "counterparty_id", "iban", "bank_name", "currency").
		From("counterparty_bank_accounts").
		Where(squirrel.Eq{"counterparty_id": ids}).
		OrderBy("iban")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	var accounts []counterparty.BankAccount
	if err := pgxscan.Select(ctx, r.db, &accounts, sql, args...); err != nil {
		return fmt.Errorf("select bank accounts: %w", err)
	}

	byOwner := make(map[id.ID][]counterparty.BankAccount, len(items))
	for _, acc := range accounts {
		byOwner[acc.CounterpartyID] = append(byOwner[acc.CounterpartyID], acc)
	}
	for i := range items {
		items[i].BankAccounts = byOwner[items[i].ID]
	}
	return nil
}
