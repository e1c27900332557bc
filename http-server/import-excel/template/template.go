package template

import (
	"fmt"
	"log/slog"
	"net/http"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Builder produces an empty import workbook.
type Builder func() ([]byte, error)

// Download serves the workbook returned by build as an attachment named
// filename.
func Download(log *slog.Logger, filename string, build Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.Download"

		excelBytes, err := build()
		if err != nil {
			log.Error("failed to build template", "op", op, "file", filename, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", fmt.Sprint(len(excelBytes)))
		if _, err := w.Write(excelBytes); err != nil {
			log.Warn("failed to write template", "op", op, "err", err)
		}
	}
}
