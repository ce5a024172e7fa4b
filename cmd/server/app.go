package main

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/diewo77/blachy/internal/handlers"
	"github.com/diewo77/blachy/internal/pending"
	"github.com/diewo77/blachy/internal/services"
	"github.com/diewo77/blachy/internal/storage"
	"github.com/diewo77/blachy/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppOptions carries the settings the handlers need beyond their dependencies.
type AppOptions struct {
	ExportDir       string
	OfferDefaultQty int
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	db      *gorm.DB
	store   storage.Storage
	pending pending.Store
	log     *zap.Logger

	catalog  *handlers.CatalogHandler
	sheets   *handlers.SheetHandler
	projects *handlers.ProjectHandler
	orders   *handlers.OrderHandler
	api      *handlers.APIHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, store storage.Storage, ps pending.Store, log *zap.Logger, opts AppOptions) *App {
	inv := services.NewInventoryService(db, log)
	orderSvc := services.NewOrderService(db, log)
	exportSvc := services.NewExportService(store, opts.ExportDir, log)

	app := &App{
		mux:      http.NewServeMux(),
		db:       db,
		store:    store,
		pending:  ps,
		log:      log,
		catalog:  handlers.NewCatalogHandler(db, log),
		sheets:   handlers.NewSheetHandler(db, inv, store, ps, log),
		projects: handlers.NewProjectHandler(db, inv, log),
		orders:   handlers.NewOrderHandler(inv, orderSvc, exportSvc, ps, opts.OfferDefaultQty, log),
		api:      handlers.NewAPIHandler(db, inv, log),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := a.withRecover(session.Middleware(a.mux))
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Sheets
	// ─────────────────────────────────────────────────────────────────────────
	sh := a.sheets
	a.mux.HandleFunc("GET /{$}", sh.Index)
	a.mux.HandleFunc("GET /dodaj", sh.New)
	a.mux.HandleFunc("POST /dodaj", sh.Create)
	a.mux.HandleFunc("GET /edytuj/{id}", sh.Edit)
	a.mux.HandleFunc("POST /edytuj/{id}", sh.Update)
	a.mux.HandleFunc("POST /usun/{id}", sh.Delete)
	a.mux.HandleFunc("GET /upload/{id}", sh.UploadForm)
	a.mux.HandleFunc("POST /upload/{id}", sh.Upload)
	a.mux.HandleFunc("GET /files/{id}/{kind}", sh.File)

	// ─────────────────────────────────────────────────────────────────────────
	// Catalog
	// ─────────────────────────────────────────────────────────────────────────
	ch := a.catalog
	a.mux.HandleFunc("GET /materialy", ch.Index)
	a.mux.HandleFunc("GET /materialy/dodaj_material", ch.NewMaterial)
	a.mux.HandleFunc("POST /materialy/dodaj_material", ch.CreateMaterial)
	a.mux.HandleFunc("GET /materialy/dodaj_thickness", ch.NewThickness)
	a.mux.HandleFunc("POST /materialy/dodaj_thickness", ch.CreateThickness)

	// ─────────────────────────────────────────────────────────────────────────
	// Projects
	// ─────────────────────────────────────────────────────────────────────────
	ph := a.projects
	a.mux.HandleFunc("GET /projekty", ph.List)
	a.mux.HandleFunc("POST /projekty", ph.Create)
	a.mux.HandleFunc("GET /projekty/dodaj", ph.New)
	a.mux.HandleFunc("POST /projekty/dodaj", ph.Create)
	a.mux.HandleFunc("GET /projekty/{id}", ph.Detail)
	a.mux.HandleFunc("POST /projekty/{id}", ph.AddItem)
	a.mux.HandleFunc("GET /projekty/item/edit/{id}", ph.EditItem)
	a.mux.HandleFunc("POST /projekty/item/edit/{id}", ph.UpdateItem)
	a.mux.HandleFunc("POST /projekty/item/delete/{id}", ph.DeleteItem)
	a.mux.HandleFunc("POST /project/archive/{id}", ph.Archive)

	// ─────────────────────────────────────────────────────────────────────────
	// Offers and orders
	// ─────────────────────────────────────────────────────────────────────────
	oh := a.orders
	a.mux.HandleFunc("GET /orders", oh.Form)
	a.mux.HandleFunc("POST /orders", oh.Draft)
	a.mux.HandleFunc("POST /order_form", oh.Draft)
	a.mux.HandleFunc("POST /offer_override", oh.Override)
	a.mux.HandleFunc("POST /generate_txt", oh.GenerateTxt)
	a.mux.HandleFunc("POST /confirm_order", oh.Confirm)
	a.mux.HandleFunc("GET /orders_list", oh.List)
	a.mux.HandleFunc("GET /order_details/{id}", oh.Details)
	a.mux.HandleFunc("GET /export_order/{id}", oh.Export)
	a.mux.HandleFunc("GET /export_order/{id}/xlsx", oh.ExportXLSX)
	a.mux.HandleFunc("POST /delete_order/{id}", oh.Delete)
	a.mux.HandleFunc("POST /delete_order_item/{id}", oh.DeleteItem)

	// ─────────────────────────────────────────────────────────────────────────
	// JSON and probes
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /api/shortages", a.api.Shortages)
	a.mux.HandleFunc("GET /healthz", a.api.Health)

	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

func (a *App) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				a.log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
