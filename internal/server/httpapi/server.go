// Package httpapi exposes the application over a JSON HTTP API. The
// session token travels in an httpOnly cookie, so browsers hold no
// script-readable credential.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ivanuser/car-project-manager-sub002/internal/logging"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/config"
	"github.com/ivanuser/car-project-manager-sub002/internal/server/services"
)

// Services bundles the service layer handed to the router.
type Services struct {
	Auth        *services.AuthService
	Projects    *services.ProjectService
	Tasks       *services.TaskService
	Vendors     *services.VendorService
	Parts       *services.PartService
	Budgets     *services.BudgetService
	Expenses    *services.ExpenseService
	Maintenance *services.MaintenanceService
	Attachments *services.AttachmentService
}

// Server wires the service layer to chi routes.
type Server struct {
	router    *chi.Mux
	cfg       *config.Config
	logger    logging.Logger
	svc       Services
	validator SessionValidator
}

// NewServer builds the router. The session validator is passed
// separately from the auth service so tests can stub it.
func NewServer(cfg *config.Config, svc Services, validator SessionValidator, logger logging.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		cfg:       cfg,
		logger:    logger.With("module", "httpapi"),
		svc:       svc,
		validator: validator,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", s.handleListProjects)
				r.Post("/", s.handleCreateProject)
				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", s.handleGetProject)
					r.Put("/", s.handleUpdateProject)
					r.Delete("/", s.handleDeleteProject)

					r.Get("/tasks", s.handleListTasks)
					r.Post("/tasks", s.handleCreateTask)
					r.Get("/parts", s.handleListParts)
					r.Post("/parts", s.handleCreatePart)
					r.Get("/budget", s.handleListBudget)
					r.Put("/budget", s.handleSetBudget)
					r.Get("/expenses", s.handleListExpenses)
					r.Post("/expenses", s.handleCreateExpense)
					r.Get("/report", s.handleExpenseReport)
					r.Get("/maintenance", s.handleListMaintenance)
					r.Post("/maintenance", s.handleCreateMaintenance)
					r.Get("/attachments", s.handleListAttachments)
					r.Post("/attachments", s.handleBeginAttachment)
				})
			})

			r.Route("/tasks/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Put("/", s.handleUpdateTask)
				r.Delete("/", s.handleDeleteTask)
			})
			r.Route("/vendors", func(r chi.Router) {
				r.Get("/", s.handleListVendors)
				r.Post("/", s.handleCreateVendor)
				r.Get("/{id}", s.handleGetVendor)
				r.Put("/{id}", s.handleUpdateVendor)
				r.Delete("/{id}", s.handleDeleteVendor)
			})
			r.Route("/parts/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetPart)
				r.Put("/", s.handleUpdatePart)
				r.Delete("/", s.handleDeletePart)
			})
			r.Delete("/budget/{id}", s.handleDeleteBudget)
			r.Route("/expenses/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetExpense)
				r.Put("/", s.handleUpdateExpense)
				r.Delete("/", s.handleDeleteExpense)
			})
			r.Route("/maintenance/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetMaintenance)
				r.Put("/", s.handleUpdateMaintenance)
				r.Post("/complete", s.handleCompleteMaintenance)
				r.Delete("/", s.handleDeleteMaintenance)
			})
			r.Route("/attachments/{id}", func(r chi.Router) {
				r.Post("/confirm", s.handleConfirmAttachment)
				r.Get("/url", s.handleAttachmentURL)
				r.Delete("/", s.handleDeleteAttachment)
			})
		})
	})
}

// Handler returns the assembled router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs the HTTP server until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.EndpointAddrHTTP,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddrHTTP)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
