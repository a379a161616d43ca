// Package adminhttp is the minimal operator surface (spec.md §6):
// health/readiness checks, a manual test-execution endpoint, and
// workflow lifecycle operations (deactivation). This is deliberately
// not the CRUD workflow-authoring REST API the spec calls out as a
// non-goal; it exists purely for operating the engine. Grounded on the
// teacher's cmd/operion-api server bootstrap (fiber/v3 +
// moogar0880/problems + go-playground/validator).
package adminhttp

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/moogar0880/problems"

	"github.com/dukex/integrail/internal/domain"
	"github.com/dukex/integrail/internal/eventlog"
	"github.com/dukex/integrail/internal/interpreter"
	"github.com/dukex/integrail/internal/queue"
	"github.com/dukex/integrail/internal/storage/postgres"
)

// Server is the admin HTTP surface.
type Server struct {
	store       *postgres.Store
	interpreter *interpreter.Interpreter
	events      *eventlog.Log
	jobs        queue.Queue
	logger      *slog.Logger
	validate    *validator.Validate
}

// New wires a Server from its dependencies.
func New(store *postgres.Store, interp *interpreter.Interpreter, events *eventlog.Log, jobs queue.Queue, logger *slog.Logger) *Server {
	return &Server{
		store:       store,
		interpreter: interp,
		events:      events,
		jobs:        jobs,
		logger:      logger.With("module", "adminhttp"),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Deactivate implements spec.md §6's deactivate(workflow_id): it flips
// is_active off and drops every pending job the Job Queue still holds
// for the workflow (spec.md §4.7), so no queued-but-not-yet-run job
// fires after the workflow is off. It's exposed through the admin HTTP
// surface below, but kept as a plain method so anything in-process
// (tests, a future CLI subcommand) can call it directly too.
func (s *Server) Deactivate(ctx context.Context, workflowID string) error {
	if err := s.store.Workflows.SetActive(ctx, workflowID, false); err != nil {
		return err
	}

	if err := s.jobs.RemoveJobsFor(ctx, workflowID); err != nil {
		return err
	}

	return s.events.Create(ctx, domain.EventWorkflowDeactivated, nil, eventlog.WithWorkflow(workflowID))
}

// testRunRequest is the body for a manual workflow test-execution.
type testRunRequest struct {
	WorkflowID  string         `json:"workflow_id" validate:"required"`
	UserID      string         `json:"user_id" validate:"required"`
	TriggerData map[string]any `json:"trigger_data"`
}

// App builds the fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{DisableColors: true}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("integrail engine")
	})

	admin := app.Group("/admin")
	admin.Get("/health", s.handleHealth)
	admin.Post("/test-run", s.handleTestRun)
	admin.Post("/workflows/:id/deactivate", s.handleDeactivate)

	return app
}

// Start runs the admin server, blocking until it exits.
func (s *Server) Start(port int) error {
	return s.App().Listen(":" + strconv.Itoa(port))
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	if err := s.store.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "up"})
}

func (s *Server) handleTestRun(c fiber.Ctx) error {
	var req testRunRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := s.validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Context()

	workflow, err := s.store.Workflows.GetByID(ctx, req.WorkflowID)
	if err != nil {
		return notFound(c, "workflow not found")
	}

	log, execErr := s.interpreter.Execute(ctx, req.UserID, workflow, req.TriggerData, "")

	resp := fiber.Map{"execution_log": log}

	if execErr != nil {
		resp["error"] = execErr.Error()
	}

	_ = s.events.Create(ctx, domain.EventWorkflowExecutionStarted,
		map[string]any{"manual": true, "at": time.Now().UTC()}, eventlog.WithWorkflow(workflow.ID), eventlog.WithUser(req.UserID))

	return c.JSON(resp)
}

func (s *Server) handleDeactivate(c fiber.Ctx) error {
	id := c.Params("id")

	if err := s.Deactivate(c.Context(), id); err != nil {
		return notFound(c, err.Error())
	}

	return c.JSON(fiber.Map{"status": "deactivated"})
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}
