package import_excel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gestion-api/internal/storage"
	"github.com/shopspring/decimal"
)

type productPatch struct {
	Name           string
	Code           *string
	Category       *string
	Unit           *string
	Quantity       *decimal.Decimal
	AlertThreshold *decimal.Decimal
}

func parseProductRow(st scanState, row []string) (p productPatch, ok bool) {
	m := st.columns

	name, ok := m.value(row, fieldProductName)
	if !ok {
		return productPatch{}, false
	}

	p = productPatch{
		Name:     name,
		Code:     optional(m, row, fieldCode),
		Category: optional(m, row, fieldCategory),
		Unit:     optional(m, row, fieldUnit),
	}

	if v, ok := m.value(row, fieldQuantity); ok {
		q := ParseAmount(v)
		p.Quantity = &q
	}
	if v, ok := m.value(row, fieldAlertThreshold); ok {
		t := ParseAmount(v)
		p.AlertThreshold = &t
	}

	return p, true
}

func (p productPatch) apply(dst *storage.Product, categoryID *int64) {
	dst.Name = p.Name
	if p.Code != nil {
		dst.Code = *p.Code
	}
	if categoryID != nil {
		dst.CategoryID = categoryID
	}
	if p.Unit != nil {
		dst.Unit = *p.Unit
	}
	if p.Quantity != nil {
		dst.Quantity = *p.Quantity
	}
	if p.AlertThreshold != nil {
		dst.AlertThreshold = *p.AlertThreshold
	}
	dst.RefreshStatus()
}

func (s *ImportService) upsertProductRow(ctx context.Context, categories *categoryCache, st scanState, row []string) (outcome, string, error) {
	const op = "import_excel.upsertProductRow"

	p, ok := parseProductRow(st, row)
	if !ok {
		return 0, "", nil
	}

	var categoryID *int64
	if p.Category != nil {
		id, err := categories.resolve(ctx, *p.Category)
		if err != nil {
			return 0, p.Name, fmt.Errorf("%s: %w", op, err)
		}
		categoryID = &id
	}

	existing, err := s.findProduct(ctx, p)
	if err != nil {
		return 0, p.Name, fmt.Errorf("%s: %w", op, err)
	}

	if existing != nil {
		p.apply(existing, categoryID)
		if err := s.products.UpdateProduct(ctx, *existing); err != nil {
			return 0, p.Name, fmt.Errorf("%s: %w", op, err)
		}
		return outcomeUpdated, p.Name, nil
	}

	product := storage.Product{Quantity: decimal.Zero, AlertThreshold: decimal.Zero}
	p.apply(&product, categoryID)
	if _, err := s.products.CreateProduct(ctx, product); err != nil {
		return 0, p.Name, fmt.Errorf("%s: %w", op, err)
	}

	return outcomeCreated, p.Name, nil
}

// findProduct resolves by code, then by name. A product found by name under
// another code is a different product.
func (s *ImportService) findProduct(ctx context.Context, p productPatch) (*storage.Product, error) {
	if p.Code != nil {
		found, err := s.products.FindProductByCode(ctx, *p.Code)
		switch {
		case err == nil:
			return found, nil
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
	}

	found, err := s.products.FindProductByName(ctx, p.Name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if p.Code != nil && found.Code != "" && found.Code != *p.Code {
		return nil, nil
	}

	return found, nil
}

// categoryCache resolves category names to ids for the length of one import,
// creating categories the sheet mentions for the first time.
type categoryCache struct {
	store ProductStore
	ids   map[string]int64
}

func newCategoryCache(store ProductStore) *categoryCache {
	return &categoryCache{store: store, ids: make(map[string]int64)}
}

func (c *categoryCache) resolve(ctx context.Context, name string) (int64, error) {
	const op = "import_excel.categoryCache.resolve"

	key := strings.ToLower(name)
	if id, ok := c.ids[key]; ok {
		return id, nil
	}

	found, err := c.store.FindCategoryByName(ctx, name)
	switch {
	case err == nil:
		c.ids[key] = found.ID
		return found.ID, nil
	case !errors.Is(err, storage.ErrNotFound):
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := c.store.CreateCategory(ctx, storage.Category{Name: name})
	if errors.Is(err, storage.ErrDuplicate) {
		// created concurrently by another import
		found, err = c.store.FindCategoryByName(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		id = found.ID
	} else if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	c.ids[key] = id
	return id, nil
}
