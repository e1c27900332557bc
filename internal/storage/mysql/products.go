package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"gestion-api/internal/storage"
)

const productColumns = `id, name, code, category_id, unit, quantity, alert_threshold, status`

func scanProduct(row rowScanner) (*storage.Product, error) {
	var (
		p          storage.Product
		code       sql.NullString
		categoryID sql.NullInt64
		status     string
	)

	err := row.Scan(&p.ID, &p.Name, &code, &categoryID, &p.Unit, &p.Quantity, &p.AlertThreshold, &status)
	if err != nil {
		return nil, err
	}

	p.Code = code.String
	p.Status = storage.StockStatus(status)
	if categoryID.Valid {
		id := categoryID.Int64
		p.CategoryID = &id
	}

	return &p, nil
}

func (s *Storage) FindProductByCode(ctx context.Context, code string) (*storage.Product, error) {
	const op = "storage.mysql.FindProductByCode"

	query := `SELECT ` + productColumns + ` FROM products WHERE code = ? LIMIT 1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, wrapQueryErr(op, err)
	}

	return p, nil
}

func (s *Storage) FindProductByName(ctx context.Context, name string) (*storage.Product, error) {
	const op = "storage.mysql.FindProductByName"

	query := `SELECT ` + productColumns + ` FROM products WHERE LOWER(name) = LOWER(?) ORDER BY id LIMIT 1`

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, wrapQueryErr(op, err)
	}

	return p, nil
}

func (s *Storage) CreateProduct(ctx context.Context, p storage.Product) (int64, error) {
	const op = "storage.mysql.CreateProduct"

	p.RefreshStatus()

	stmt := `INSERT INTO products (name, code, category_id, unit, quantity, alert_threshold, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt,
		p.Name,
		nullString(p.Code),
		p.CategoryID,
		p.Unit,
		p.Quantity,
		p.AlertThreshold,
		string(p.Status),
	)
	if err != nil {
		return 0, wrapExecErr(op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: last insert id: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateProduct(ctx context.Context, p storage.Product) error {
	const op = "storage.mysql.UpdateProduct"

	p.RefreshStatus()

	stmt := `UPDATE products SET
		name = ?, code = ?, category_id = ?, unit = ?, quantity = ?, alert_threshold = ?, status = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt,
		p.Name,
		nullString(p.Code),
		p.CategoryID,
		p.Unit,
		p.Quantity,
		p.AlertThreshold,
		string(p.Status),
		p.ID,
	)
	if err != nil {
		return wrapExecErr(op, err)
	}

	// MySQL reports zero affected rows when nothing changed
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = ?)`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: product id=%d: %w", op, p.ID, storage.ErrNotFound)
		}
	}

	return nil
}
