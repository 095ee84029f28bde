package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "eval-admin/docs" // This is for Swagger
	"eval-admin/internal/auth"
	"eval-admin/internal/config"
	"eval-admin/internal/database"
	"eval-admin/internal/handlers"
	"eval-admin/internal/logger"
	"eval-admin/internal/middleware"
	"eval-admin/internal/repository"
	"eval-admin/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title EvalAdmin API
// @version 1.0
// @description Backend API for performance evaluation administration and evaluation line assignment

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrator(db.DB)
	if err := migrator.Run("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db.DB)
	departmentRepo := repository.NewDepartmentRepository(db.DB)
	periodRepo := repository.NewEvaluationPeriodRepository(db.DB)
	deliverableRepo := repository.NewDeliverableRepository(db.DB)
	lineRepo := repository.NewEvaluationLineRepository(db.DB)
	mappingRepo := repository.NewLineMappingRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	authSvc := service.NewAuthService(employeeRepo, authService)
	orgService := service.NewOrganizationService(employeeRepo, departmentRepo, authService)
	periodService := service.NewPeriodService(periodRepo)

	validator := service.NewAssignmentValidator(mappingRepo)
	resolver := service.NewHierarchyResolver(employeeRepo, departmentRepo)
	assignmentService := service.NewAssignmentService(lineRepo, mappingRepo, employeeRepo, validator)
	batchOrchestrator := service.NewBatchOrchestrator(assignmentService, resolver, employeeRepo, mappingRepo)
	deliverableService := service.NewDeliverableService(deliverableRepo, periodRepo, assignmentService, resolver, mappingRepo)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	auditMw := middleware.NewAuditMiddleware(db.DB)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	deliverableHandler := handlers.NewDeliverableHandler(deliverableService)
	lineHandler := handlers.NewLineAssignmentHandler(assignmentService, batchOrchestrator, periodService)

	// Setup router
	mux := http.NewServeMux()

	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMw.Authenticate(h))
	}
	audited := func(pattern string, action, resource string, h http.HandlerFunc) {
		mux.Handle(pattern, authMw.Authenticate(auditMw.Log(action, resource)(h)))
	}

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Organization routes
	protected("GET /api/v1/departments", orgHandler.ListDepartments)
	audited("POST /api/v1/departments", "department.create", "department", orgHandler.CreateDepartment)
	protected("GET /api/v1/departments/{id}", orgHandler.GetDepartment)
	audited("PUT /api/v1/departments/{id}", "department.update", "department", orgHandler.UpdateDepartment)

	protected("GET /api/v1/employees", orgHandler.ListEmployees)
	audited("POST /api/v1/employees", "employee.create", "employee", orgHandler.CreateEmployee)
	protected("GET /api/v1/employees/{id}", orgHandler.GetEmployee)
	audited("PUT /api/v1/employees/{id}", "employee.update", "employee", orgHandler.UpdateEmployee)

	// Evaluation period routes
	protected("GET /api/v1/periods", periodHandler.ListPeriods)
	audited("POST /api/v1/periods", "period.create", "evaluation_period", periodHandler.CreatePeriod)
	protected("GET /api/v1/periods/{id}", periodHandler.GetPeriod)
	audited("PUT /api/v1/periods/{id}", "period.update", "evaluation_period", periodHandler.UpdatePeriod)
	audited("POST /api/v1/periods/{id}/open", "period.open", "evaluation_period", periodHandler.OpenPeriod)
	audited("POST /api/v1/periods/{id}/close", "period.close", "evaluation_period", periodHandler.ClosePeriod)

	// Deliverable routes
	protected("GET /api/v1/periods/{periodId}/deliverables", deliverableHandler.ListDeliverables)
	audited("POST /api/v1/periods/{periodId}/deliverables", "deliverable.create", "deliverable", deliverableHandler.CreateDeliverable)
	protected("GET /api/v1/deliverables/{id}", deliverableHandler.GetDeliverable)
	audited("PUT /api/v1/deliverables/{id}", "deliverable.update", "deliverable", deliverableHandler.UpdateDeliverable)
	protected("GET /api/v1/deliverables/{id}/employees", deliverableHandler.ListAssignedEmployees)
	audited("POST /api/v1/deliverables/{id}/employees", "deliverable.assign", "deliverable_assignment", deliverableHandler.AssignEmployee)
	audited("DELETE /api/v1/deliverables/{id}/employees/{employeeId}", "deliverable.unassign", "deliverable_assignment", deliverableHandler.UnassignEmployee)
	protected("GET /api/v1/deliverables/{id}/mappings", deliverableHandler.ListMappings)
	audited("DELETE /api/v1/deliverables/{id}/mappings", "deliverable.reset_mappings", "evaluation_line_mapping", deliverableHandler.ResetMappings)

	// Evaluation line assignment routes
	protected("GET /api/v1/lines", lineHandler.ListLines)
	audited("POST /api/v1/lines/configure", "line.configure", "evaluation_line_mapping", lineHandler.ConfigureLine)
	audited("PUT /api/v1/lines/mappings/{id}", "line.update", "evaluation_line_mapping", lineHandler.UpdateMapping)
	audited("DELETE /api/v1/lines/mappings/{id}", "line.delete", "evaluation_line_mapping", lineHandler.DeleteMapping)
	audited("POST /api/v1/lines/batch", "line.batch_configure", "evaluation_line_mapping", lineHandler.BatchConfigure)
	protected("GET /api/v1/periods/{periodId}/evaluatees/{employeeId}/mappings", lineHandler.ListEvaluateeMappings)
	audited("DELETE /api/v1/periods/{periodId}/evaluatees/{employeeId}/mappings", "line.reset_evaluatee", "evaluation_line_mapping", lineHandler.ResetEvaluateeMappings)
	audited("POST /api/v1/periods/{id}/auto-assign", "line.auto_assign", "evaluation_line_mapping", lineHandler.AutoAssignPrimary)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			if _, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`)); err != nil {
				slog.Error("Failed to write health check response", "error", err)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`)); err != nil {
			slog.Error("Failed to write health check response", "error", err)
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(mux),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
