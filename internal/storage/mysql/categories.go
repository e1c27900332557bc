package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"gestion-api/internal/storage"
)

func (s *Storage) FindCategoryByName(ctx context.Context, name string) (*storage.Category, error) {
	const op = "storage.mysql.FindCategoryByName"

	var (
		c           storage.Category
		description sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE LOWER(name) = LOWER(?) LIMIT 1`, name,
	).Scan(&c.ID, &c.Name, &description)
	if err != nil {
		return nil, wrapQueryErr(op, err)
	}

	c.Description = description.String

	return &c, nil
}

func (s *Storage) CreateCategory(ctx context.Context, c storage.Category) (int64, error) {
	const op = "storage.mysql.CreateCategory"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`, c.Name, nullString(c.Description),
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
