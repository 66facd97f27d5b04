package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/phrazzld/taskcycle-api/internal/config"
	"github.com/phrazzld/taskcycle-api/internal/platform/logger"
	"github.com/phrazzld/taskcycle-api/internal/platform/postgres"
	"github.com/phrazzld/taskcycle-api/internal/scheduler"
	"github.com/phrazzld/taskcycle-api/internal/service"
	"github.com/phrazzld/taskcycle-api/internal/service/auth"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// application bundles the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	taskStore     store.TaskStore
	reminderStore store.ReminderStore
	tagStore      store.TagStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	userService     service.UserService
	taskService     service.TaskService
	reminderService service.ReminderService
	tagService      service.TagService

	regenerator *scheduler.TaskRegenerator
	dispatcher  *scheduler.ReminderDispatcher
	scanner     *scheduler.OverdueScanner
}

// newApplication loads configuration, connects to the database, and wires the
// stores, services, and batch orchestrators.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, log)
	taskStore := postgres.NewPostgresTaskStore(db, log)
	reminderStore := postgres.NewPostgresReminderStore(db, log)
	tagStore := postgres.NewPostgresTagStore(db, log)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher(0)
	verifier := auth.NewBcryptVerifier()

	app := &application{
		config: cfg,
		logger: log,
		db:     db,

		userStore:     userStore,
		taskStore:     taskStore,
		reminderStore: reminderStore,
		tagStore:      tagStore,

		jwtService:       jwtService,
		passwordVerifier: verifier,

		userService:     service.NewUserService(userStore, db, hasher, verifier, jwtService, log),
		taskService:     service.NewTaskService(taskStore, log),
		reminderService: service.NewReminderService(reminderStore, taskStore, log),
		tagService:      service.NewTagService(tagStore, taskStore, log),

		regenerator: scheduler.NewTaskRegenerator(taskStore, cfg.Scheduler.BatchSize, log),
		dispatcher: scheduler.NewReminderDispatcher(
			reminderStore,
			scheduler.NewLogNotifier(log),
			cfg.Scheduler.BatchSize,
			log,
		),
		scanner: scheduler.NewOverdueScanner(taskStore, cfg.Scheduler.BatchSize, log),
	}

	return app, nil
}

// cleanup releases the application's resources.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
