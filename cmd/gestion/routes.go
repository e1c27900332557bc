package main

import (
	"log/slog"
	"net/http"

	"gestion-api/http-server/health"
	"gestion-api/http-server/import-excel/template"
	"gestion-api/http-server/import-excel/upload"
	"gestion-api/internal/config"
	import_excel "gestion-api/internal/service/import-excel"
	"gestion-api/internal/storage/mysql"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, importService *import_excel.ImportService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Import-ID", "Content-Disposition"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/api/health", health.Check(log, storage))

	limits := upload.Limits{
		MaxSize: cfg.Import.MaxUploadSize,
		Timeout: cfg.Import.Timeout,
	}

	router.Route("/api/import", func(r chi.Router) {
		r.Post("/workers", upload.ImportWorkers(log, importService, limits))
		r.Post("/products", upload.ImportProducts(log, importService, limits))

		r.Get("/workers/template", template.Download(log, "modele_personnel.xlsx", import_excel.WorkerTemplate))
		r.Get("/products/template", template.Download(log, "modele_produits.xlsx", import_excel.ProductTemplate))
	})

	return router
}
