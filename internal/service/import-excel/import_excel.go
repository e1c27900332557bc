package import_excel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gestion-api/internal/storage"
	"github.com/google/uuid"
)

type WorkerStore interface {
	FindWorkerByNationalID(ctx context.Context, nationalID string) (*storage.Worker, error)
	FindWorker(ctx context.Context, lookup storage.WorkerLookup) (*storage.Worker, error)
	CreateWorker(ctx context.Context, w storage.Worker) (int64, error)
	UpdateWorker(ctx context.Context, w storage.Worker) error
}

type ProductStore interface {
	FindProductByCode(ctx context.Context, code string) (*storage.Product, error)
	FindProductByName(ctx context.Context, name string) (*storage.Product, error)
	CreateProduct(ctx context.Context, p storage.Product) (int64, error)
	UpdateProduct(ctx context.Context, p storage.Product) error
	FindCategoryByName(ctx context.Context, name string) (*storage.Category, error)
	CreateCategory(ctx context.Context, c storage.Category) (int64, error)
}

type Options struct {
	// DefaultSite is assigned to workers read before any site banner.
	DefaultSite string
	// A lone cell must be longer than this many characters to name a site.
	BannerMinLength int
}

// Stats is the body returned by the import endpoints.
type Stats struct {
	ImportID string   `json:"-"`
	Total    int      `json:"total"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

type ImportService struct {
	log      *slog.Logger
	workers  WorkerStore
	products ProductStore
	opts     Options
}

func NewImportService(log *slog.Logger, workers WorkerStore, products ProductStore, opts Options) *ImportService {
	return &ImportService{
		log:      log,
		workers:  workers,
		products: products,
		opts:     opts,
	}
}

type outcome int

const (
	outcomeCreated outcome = iota + 1
	outcomeUpdated
)

// rowHandler upserts one data row. name identifies the row in error messages
// and is returned even when err is not nil.
type rowHandler func(ctx context.Context, st scanState, row []string) (res outcome, name string, err error)

func (s *ImportService) ImportWorkers(ctx context.Context, filename string, data []byte) (Stats, error) {
	const op = "import_excel.ImportWorkers"

	rows, err := ReadGrid(filename, data)
	if err != nil {
		return newStats(), fmt.Errorf("%s: %w", op, err)
	}

	return s.ImportWorkerRows(ctx, rows)
}

func (s *ImportService) ImportProducts(ctx context.Context, filename string, data []byte) (Stats, error) {
	const op = "import_excel.ImportProducts"

	rows, err := ReadGrid(filename, data)
	if err != nil {
		return newStats(), fmt.Errorf("%s: %w", op, err)
	}

	return s.ImportProductRows(ctx, rows)
}

func (s *ImportService) ImportWorkerRows(ctx context.Context, rows [][]string) (Stats, error) {
	return s.run(ctx, workerSheet, rows, s.upsertWorkerRow)
}

func (s *ImportService) ImportProductRows(ctx context.Context, rows [][]string) (Stats, error) {
	categories := newCategoryCache(s.products)

	return s.run(ctx, productSheet, rows, func(ctx context.Context, st scanState, row []string) (outcome, string, error) {
		return s.upsertProductRow(ctx, categories, st, row)
	})
}

func newStats() Stats {
	return Stats{Errors: []string{}}
}

// run folds the rows through the scanner and hands data rows to handle, one
// at a time. There is no enclosing transaction: a failing row is recorded and
// rows already written stay written.
func (s *ImportService) run(ctx context.Context, sheet sheetLayout, rows [][]string, handle rowHandler) (Stats, error) {
	const op = "import_excel.run"

	stats := newStats()
	stats.ImportID = uuid.NewString()

	log := s.log.With(
		slog.String("op", op),
		slog.String("sheet", sheet.name),
		slog.String("import_id", stats.ImportID),
	)
	log.Info("import started", slog.Int("rows", len(rows)))

	sc := scanner{sheet: sheet, bannerMinLength: s.opts.BannerMinLength}
	st := newScanState(s.opts.DefaultSite)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			log.Warn("import interrupted", slog.Int("line", i+1), slog.String("error", err.Error()))
			return stats, fmt.Errorf("%s: interrupted at line %d: %w", op, i+1, err)
		}

		line := i + 1

		var kind rowKind
		st, kind = sc.step(st, row)

		switch kind {
		case rowBanner:
			log.Debug("site banner", slog.Int("line", line), slog.String("site", st.site))
		case rowHeader:
			log.Debug("header row", slog.Int("line", line), slog.Int("columns", len(st.columns)))
		}
		if kind != rowData {
			continue
		}

		res, name, err := guard(ctx, st, row, handle)
		if res == 0 && err == nil {
			// required cells missing
			continue
		}

		stats.Total++
		switch {
		case err != nil:
			if name == "" {
				name = rowLabel(row)
			}
			msg := fmt.Sprintf("Ligne %d (%s): %v", line, name, err)
			stats.Errors = append(stats.Errors, msg)
			log.Warn("row rejected", slog.Int("line", line), slog.String("error", err.Error()))
		case res == outcomeCreated:
			stats.Created++
		case res == outcomeUpdated:
			stats.Updated++
		}
	}

	log.Info("import finished",
		slog.Int("total", stats.Total),
		slog.Int("created", stats.Created),
		slog.Int("updated", stats.Updated),
		slog.Int("errors", len(stats.Errors)),
	)

	return stats, nil
}

// guard runs handle and turns a panic into a row error.
func guard(ctx context.Context, st scanState, row []string, handle rowHandler) (res outcome, name string, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = 0
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return handle(ctx, st, row)
}

func rowLabel(row []string) string {
	cells := nonEmptyCells(row)
	if len(cells) > 2 {
		cells = cells[:2]
	}
	return strings.Join(cells, " ")
}
