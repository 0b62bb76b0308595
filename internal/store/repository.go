package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"inventory-intelligence/internal/core"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository loads the read-only inputs of the intelligence pipeline
// (catalog items, historical invoice lines, restock expenses) for a company.
// The core never touches the database; this adapter supplies it plain slices.
type HistoryRepository interface {
	GetCatalogItems(ctx context.Context, companyCode string) ([]core.CatalogItem, error)
	GetCatalogItem(ctx context.Context, companyCode, itemID string) (*core.CatalogItem, error)
	// GetSaleRecords returns invoice lines dated on or after since,
	// oldest first. Pass a zero time for the full history.
	GetSaleRecords(ctx context.Context, companyCode string, since time.Time) ([]core.SaleRecord, error)
	GetExpenseRecords(ctx context.Context, companyCode string, since time.Time) ([]core.ExpenseRecord, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

// resolveCompanyID looks up the integer primary key for a company code.
func (r *historyRepository) resolveCompanyID(ctx context.Context, companyCode string) (int, error) {
	var id int
	if err := r.pool.QueryRow(ctx,
		"SELECT id FROM companies WHERE company_code = $1", companyCode,
	).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("company %s not found", companyCode)
		}
		return 0, fmt.Errorf("failed to resolve company: %w", err)
	}
	return id, nil
}

func (r *historyRepository) GetCatalogItems(ctx context.Context, companyCode string) ([]core.CatalogItem, error) {
	companyID, err := r.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT code, name, current_stock, reorder_level, unit_cost, unit_price, is_trackable
		FROM catalog_items
		WHERE company_id = $1 AND is_active = true
		ORDER BY code
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog items: %w", err)
	}
	defer rows.Close()

	var items []core.CatalogItem
	for rows.Next() {
		var it core.CatalogItem
		if err := rows.Scan(&it.ID, &it.Name, &it.CurrentStock, &it.ReorderLevel,
			&it.UnitCost, &it.UnitPrice, &it.Trackable); err != nil {
			return nil, fmt.Errorf("failed to scan catalog item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *historyRepository) GetCatalogItem(ctx context.Context, companyCode, itemID string) (*core.CatalogItem, error) {
	companyID, err := r.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	var it core.CatalogItem
	err = r.pool.QueryRow(ctx, `
		SELECT code, name, current_stock, reorder_level, unit_cost, unit_price, is_trackable
		FROM catalog_items
		WHERE company_id = $1 AND code = $2 AND is_active = true
	`, companyID, itemID).Scan(&it.ID, &it.Name, &it.CurrentStock, &it.ReorderLevel,
		&it.UnitCost, &it.UnitPrice, &it.Trackable)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("item %s not found for company %s", itemID, companyCode)
		}
		return nil, fmt.Errorf("failed to fetch catalog item: %w", err)
	}
	return &it, nil
}

func (r *historyRepository) GetSaleRecords(ctx context.Context, companyCode string, since time.Time) ([]core.SaleRecord, error) {
	companyID, err := r.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT il.item_code, i.invoice_date, il.quantity, il.line_total, il.unit_price,
		       COALESCE(il.cost_price_at_sale, 0)
		FROM invoice_lines il
		JOIN invoices i ON i.id = il.invoice_id
		WHERE i.company_id = $1
		  AND i.status != 'CANCELLED'`
	args := []any{companyID}
	if !since.IsZero() {
		args = append(args, since)
		q += fmt.Sprintf(" AND i.invoice_date >= $%d", len(args))
	}
	q += " ORDER BY i.invoice_date ASC, il.id ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sale records: %w", err)
	}
	defer rows.Close()

	var sales []core.SaleRecord
	for rows.Next() {
		var s core.SaleRecord
		if err := rows.Scan(&s.ItemID, &s.Date, &s.Quantity, &s.Revenue,
			&s.UnitPrice, &s.CostPriceAtSale); err != nil {
			return nil, fmt.Errorf("failed to scan sale record: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *historyRepository) GetExpenseRecords(ctx context.Context, companyCode string, since time.Time) ([]core.ExpenseRecord, error) {
	companyID, err := r.resolveCompanyID(ctx, companyCode)
	if err != nil {
		return nil, err
	}

	q := `
		SELECT expense_date, amount, COALESCE(description, '')
		FROM expenses
		WHERE company_id = $1`
	args := []any{companyID}
	if !since.IsZero() {
		args = append(args, since)
		q += fmt.Sprintf(" AND expense_date >= $%d", len(args))
	}
	q += " ORDER BY expense_date ASC, id ASC"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expense records: %w", err)
	}
	defer rows.Close()

	var expenses []core.ExpenseRecord
	for rows.Next() {
		var e core.ExpenseRecord
		if err := rows.Scan(&e.Date, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan expense record: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
