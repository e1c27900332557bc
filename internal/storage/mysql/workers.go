package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gestion-api/internal/storage"
)

const workerColumns = `id, first_name, last_name, national_id, contact, address, base_salary, site, hire_date, birth_date, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorker(row rowScanner) (*storage.Worker, error) {
	var (
		w          storage.Worker
		nationalID sql.NullString
		hire       sql.NullTime
		birth      sql.NullTime
		status     string
	)

	err := row.Scan(
		&w.ID,
		&w.FirstName,
		&w.LastName,
		&nationalID,
		&w.Contact,
		&w.Address,
		&w.BaseSalary,
		&w.Site,
		&hire,
		&birth,
		&status,
	)
	if err != nil {
		return nil, err
	}

	w.NationalID = nationalID.String
	w.Status = storage.WorkerStatus(status)
	if hire.Valid {
		w.HireDate = timePtr(hire.Time)
	}
	if birth.Valid {
		w.BirthDate = timePtr(birth.Time)
	}

	return &w, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func (s *Storage) FindWorkerByNationalID(ctx context.Context, nationalID string) (*storage.Worker, error) {
	const op = "storage.mysql.FindWorkerByNationalID"

	query := `SELECT ` + workerColumns + ` FROM workers WHERE national_id = ? LIMIT 1`

	w, err := scanWorker(s.db.QueryRowContext(ctx, query, nationalID))
	if err != nil {
		return nil, wrapQueryErr(op, err)
	}

	return w, nil
}

// FindWorker matches on first and last name, case-insensitively, and on the
// contact when the lookup carries one.
func (s *Storage) FindWorker(ctx context.Context, lookup storage.WorkerLookup) (*storage.Worker, error) {
	const op = "storage.mysql.FindWorker"

	query := `SELECT ` + workerColumns + ` FROM workers
		WHERE LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?)`
	args := []any{lookup.FirstName, lookup.LastName}

	if lookup.Contact != "" {
		query += ` AND contact = ?`
		args = append(args, lookup.Contact)
	}
	query += ` ORDER BY id LIMIT 1`

	w, err := scanWorker(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, wrapQueryErr(op, err)
	}

	return w, nil
}

func (s *Storage) CreateWorker(ctx context.Context, w storage.Worker) (int64, error) {
	const op = "storage.mysql.CreateWorker"

	stmt := `INSERT INTO workers
		(first_name, last_name, national_id, contact, address, base_salary, site, hire_date, birth_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, stmt,
		w.FirstName,
		w.LastName,
		nullString(w.NationalID),
		w.Contact,
		w.Address,
		w.BaseSalary,
		w.Site,
		w.HireDate,
		w.BirthDate,
		string(w.Status),
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

func (s *Storage) UpdateWorker(ctx context.Context, w storage.Worker) error {
	const op = "storage.mysql.UpdateWorker"

	stmt := `UPDATE workers SET
		first_name = ?, last_name = ?, national_id = ?, contact = ?, address = ?,
		base_salary = ?, site = ?, hire_date = ?, birth_date = ?, status = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt,
		w.FirstName,
		w.LastName,
		nullString(w.NationalID),
		w.Contact,
		w.Address,
		w.BaseSalary,
		w.Site,
		w.HireDate,
		w.BirthDate,
		string(w.Status),
		w.ID,
	)
	if err != nil {
		return wrapExecErr(op, err)
	}

	// MySQL reports 0 affected rows when nothing changed, so only a missing id is an error
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM workers WHERE id = ?)`, w.ID).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: worker id=%d: %w", op, w.ID, storage.ErrNotFound)
		}
	}

	return nil
}
