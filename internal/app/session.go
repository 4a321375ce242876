// Package app wires a crewplan session: one database handle, the logger, the
// repositories and every service built on them.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/crewplan/internal/config"
	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/alexanderramin/crewplan/internal/service"
)

// Session replaces process-wide state. It is created once per command
// invocation and passed explicitly to whatever needs it.
type Session struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Projects       service.ProjectService
	Resources      service.ResourceService
	Assignments    service.AssignmentService
	Unavailability service.UnavailabilityService
	Availability   service.AvailabilityService
	Conflicts      service.ConflictService
	Tasks          service.TaskService
	OpenItems      service.OpenItemService
	Import         service.ImportService
}

type Option func(*options)

type options struct {
	logOutput io.Writer
}

// WithLogOutput sends log records to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// Open opens the database named by cfg and wires the services.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.NewLogger(o.logOutput)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.PingContext(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.DebugContext(ctx, "database ready", "path", cfg.DBPath, "config", cfg.File)

	var observer service.UseCaseObserver
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(logger)
	}

	projects := repository.NewSQLiteProjectRepo(database)
	resources := repository.NewSQLiteResourceRepo(database)
	assignments := repository.NewSQLiteAssignmentRepo(database)
	leave := repository.NewSQLiteUnavailabilityRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteTaskDependencyRepo(database)
	items := repository.NewSQLiteOpenItemRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	return &Session{
		Config: cfg,
		Logger: logger,
		DB:     database,

		Projects:       service.NewProjectService(projects, assignments, uow, observer),
		Resources:      service.NewResourceService(resources, assignments, uow, observer),
		Assignments:    service.NewAssignmentService(assignments, uow, logger, observer),
		Unavailability: service.NewUnavailabilityService(leave, uow, observer),
		Availability:   service.NewAvailabilityService(assignments, leave, logger),
		Conflicts:      service.NewConflictService(assignments, observer),
		Tasks:          service.NewTaskService(tasks, deps, uow, observer),
		OpenItems:      service.NewOpenItemService(items, uow, observer),
		Import:         service.NewImportService(uow, logger, observer),
	}, nil
}

// Close drops cached state and closes the database. It is safe to call on a
// nil session.
func (s *Session) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	s.OpenItems.InvalidateAll()
	err := s.DB.Close()
	s.DB = nil
	return err
}
