package import_excel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gestion-api/internal/storage"
	"github.com/shopspring/decimal"
)

// workerPatch carries the cells a row actually filled. Nil fields leave the
// stored worker untouched.
type workerPatch struct {
	FirstName  string
	LastName   string
	NationalID *string
	Contact    *string
	Address    *string
	BaseSalary *decimal.Decimal
	Site       *string
	HireDate   *time.Time
	BirthDate  *time.Time
	Status     *storage.WorkerStatus
}

func (p workerPatch) displayName() string {
	return p.FirstName + " " + p.LastName
}

func (p workerPatch) apply(w *storage.Worker) {
	w.FirstName = p.FirstName
	w.LastName = p.LastName
	if p.NationalID != nil {
		w.NationalID = *p.NationalID
	}
	if p.Contact != nil {
		w.Contact = *p.Contact
	}
	if p.Address != nil {
		w.Address = *p.Address
	}
	if p.BaseSalary != nil {
		w.BaseSalary = *p.BaseSalary
	}
	if p.Site != nil {
		w.Site = *p.Site
	}
	if p.HireDate != nil {
		w.HireDate = p.HireDate
	}
	if p.BirthDate != nil {
		w.BirthDate = p.BirthDate
	}
	if p.Status != nil {
		w.Status = *p.Status
	}
}

func (p workerPatch) newWorker(site string) storage.Worker {
	w := storage.Worker{
		BaseSalary: decimal.Zero,
		Site:       site,
		Status:     storage.WorkerActive,
	}
	p.apply(&w)

	return w
}

func optional(m columnMap, row []string, f field) *string {
	v, ok := m.value(row, f)
	if !ok {
		return nil
	}
	return &v
}

// parseWorkerRow reads a data row. ok is false when a required name cell is
// empty.
func parseWorkerRow(st scanState, row []string) (p workerPatch, ok bool) {
	m := st.columns

	first, okFirst := m.value(row, fieldFirstName)
	last, okLast := m.value(row, fieldLastName)
	if !okFirst || !okLast {
		return workerPatch{}, false
	}

	p = workerPatch{
		FirstName:  first,
		LastName:   last,
		NationalID: optional(m, row, fieldNationalID),
		Contact:    optional(m, row, fieldContact),
		Address:    optional(m, row, fieldAddress),
		Site:       optional(m, row, fieldSite),
	}

	if p.Site == nil && st.siteSeen {
		site := st.site
		p.Site = &site
	}

	if v, ok := m.value(row, fieldSalary); ok {
		salary := ParseAmount(v)
		p.BaseSalary = &salary
	}
	if v, ok := m.value(row, fieldHireDate); ok {
		p.HireDate = ParseDate(v)
	}
	if v, ok := m.value(row, fieldBirthDate); ok {
		p.BirthDate = ParseDate(v)
	}
	if v, ok := m.value(row, fieldStatus); ok {
		if status, known := storage.ParseWorkerStatus(v); known {
			p.Status = &status
		}
	}

	return p, true
}

func (s *ImportService) upsertWorkerRow(ctx context.Context, st scanState, row []string) (outcome, string, error) {
	const op = "import_excel.upsertWorkerRow"

	p, ok := parseWorkerRow(st, row)
	if !ok {
		return 0, "", nil
	}
	name := p.displayName()

	existing, err := s.findWorker(ctx, p)
	if err != nil {
		return 0, name, fmt.Errorf("%s: %w", op, err)
	}

	if existing != nil {
		p.apply(existing)
		if err := s.workers.UpdateWorker(ctx, *existing); err != nil {
			return 0, name, fmt.Errorf("%s: %w", op, err)
		}
		return outcomeUpdated, name, nil
	}

	if _, err := s.workers.CreateWorker(ctx, p.newWorker(st.site)); err != nil {
		return 0, name, fmt.Errorf("%s: %w", op, err)
	}

	return outcomeCreated, name, nil
}

// findWorker resolves the row to a stored worker: by national ID first, then
// by names (and contact when the row has one). A name match that belongs to a
// different national ID is not the same person. A nil worker means no match.
func (s *ImportService) findWorker(ctx context.Context, p workerPatch) (*storage.Worker, error) {
	if p.NationalID != nil {
		w, err := s.workers.FindWorkerByNationalID(ctx, *p.NationalID)
		switch {
		case err == nil:
			return w, nil
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
	}

	lookup := storage.WorkerLookup{FirstName: p.FirstName, LastName: p.LastName}
	if p.Contact != nil {
		lookup.Contact = *p.Contact
	}

	w, err := s.workers.FindWorker(ctx, lookup)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if p.NationalID != nil && w.NationalID != "" && w.NationalID != *p.NationalID {
		return nil, nil
	}

	return w, nil
}
