package upload

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	import_excel "gestion-api/internal/service/import-excel"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const formField = "file"

type WorkerImporter interface {
	ImportWorkers(ctx context.Context, filename string, data []byte) (import_excel.Stats, error)
}

type ProductImporter interface {
	ImportProducts(ctx context.Context, filename string, data []byte) (import_excel.Stats, error)
}

// Limits bound a single upload.
type Limits struct {
	MaxSize int64
	Timeout time.Duration
}

func ImportWorkers(log *slog.Logger, imp WorkerImporter, limits Limits) http.HandlerFunc {
	return handle(log, "handlers.import.ImportWorkers", imp.ImportWorkers, limits)
}

func ImportProducts(log *slog.Logger, imp ProductImporter, limits Limits) http.HandlerFunc {
	return handle(log, "handlers.import.ImportProducts", imp.ImportProducts, limits)
}

type importFunc func(ctx context.Context, filename string, data []byte) (import_excel.Stats, error)

func handle(log *slog.Logger, op string, run importFunc, limits Limits) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		r.Body = http.MaxBytesReader(w, r.Body, limits.MaxSize)

		file, header, err := r.FormFile(formField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "fichier trop volumineux", http.StatusBadRequest)
				return
			}
			http.Error(w, "aucun fichier reçu", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			log.Error("failed to read upload", slog.String("error", err.Error()))
			http.Error(w, "lecture du fichier impossible", http.StatusBadRequest)
			return
		}

		log.Info("file received", slog.String("filename", header.Filename), slog.Int("size", len(data)))

		ctx, cancel := context.WithTimeout(r.Context(), limits.Timeout)
		defer cancel()

		stats, err := run(ctx, header.Filename, data)
		if stats.ImportID != "" {
			w.Header().Set("X-Import-ID", stats.ImportID)
		}
		if err != nil {
			if errors.Is(err, import_excel.ErrUnreadableWorkbook) {
				log.Warn("unreadable workbook", slog.String("error", err.Error()))
				http.Error(w, "fichier Excel illisible", http.StatusBadRequest)
				return
			}
			log.Error("import failed", slog.String("error", err.Error()), slog.Int("rows_done", stats.Total))
			http.Error(w, "erreur lors de l'import", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, stats)
	}
}
