package import_excel

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"gestion-api/internal/storage"
)

// memStore is an in-memory WorkerStore and ProductStore.
type memStore struct {
	mu         sync.Mutex
	workers    []storage.Worker
	products   []storage.Product
	categories []storage.Category

	// failOn makes writes for the given first name (workers) or product name fail
	failOn  map[string]error
	panicOn map[string]bool

	categoryLookups int
}

func newMemStore() *memStore {
	return &memStore{failOn: map[string]error{}, panicOn: map[string]bool{}}
}

func (m *memStore) check(name string) error {
	if m.panicOn[name] {
		panic("store exploded on " + name)
	}
	return m.failOn[name]
}

func (m *memStore) FindWorkerByNationalID(_ context.Context, nationalID string) (*storage.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.workers {
		if nationalID != "" && w.NationalID == nationalID {
			w := w
			return &w, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) FindWorker(_ context.Context, l storage.WorkerLookup) (*storage.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.workers {
		if !strings.EqualFold(w.FirstName, l.FirstName) || !strings.EqualFold(w.LastName, l.LastName) {
			continue
		}
		if l.Contact != "" && w.Contact != l.Contact {
			continue
		}
		w := w
		return &w, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) CreateWorker(_ context.Context, w storage.Worker) (int64, error) {
	if err := m.check(w.FirstName); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	w.ID = int64(len(m.workers) + 1)
	m.workers = append(m.workers, w)
	return w.ID, nil
}

func (m *memStore) UpdateWorker(_ context.Context, w storage.Worker) error {
	if err := m.check(w.FirstName); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.workers {
		if m.workers[i].ID == w.ID {
			m.workers[i] = w
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) worker(firstName string) (storage.Worker, bool) {
	for _, w := range m.workers {
		if w.FirstName == firstName {
			return w, true
		}
	}
	return storage.Worker{}, false
}

func (m *memStore) FindProductByCode(_ context.Context, code string) (*storage.Product, error) {
	for _, p := range m.products {
		if code != "" && p.Code == code {
			p := p
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) FindProductByName(_ context.Context, name string) (*storage.Product, error) {
	for _, p := range m.products {
		if strings.EqualFold(p.Name, name) {
			p := p
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) CreateProduct(_ context.Context, p storage.Product) (int64, error) {
	if err := m.check(p.Name); err != nil {
		return 0, err
	}
	p.ID = int64(len(m.products) + 1)
	p.RefreshStatus()
	m.products = append(m.products, p)
	return p.ID, nil
}

func (m *memStore) UpdateProduct(_ context.Context, p storage.Product) error {
	if err := m.check(p.Name); err != nil {
		return err
	}
	for i := range m.products {
		if m.products[i].ID == p.ID {
			p.RefreshStatus()
			m.products[i] = p
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memStore) product(name string) (storage.Product, bool) {
	for _, p := range m.products {
		if p.Name == name {
			return p, true
		}
	}
	return storage.Product{}, false
}

func (m *memStore) FindCategoryByName(_ context.Context, name string) (*storage.Category, error) {
	m.categoryLookups++
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			c := c
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) CreateCategory(_ context.Context, c storage.Category) (int64, error) {
	if err := m.check("category:" + c.Name); err != nil {
		return 0, err
	}
	c.ID = int64(len(m.categories) + 1)
	m.categories = append(m.categories, c)
	return c.ID, nil
}

var errStoreDown = errors.New("connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(store *memStore) *ImportService {
	return NewImportService(discardLogger(), store, store, Options{
		DefaultSite:     "NON AFFECTE",
		BannerMinLength: 3,
	})
}
