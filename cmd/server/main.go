// Package main implements the entry point for the taskcycle API server,
// which manages users' tasks, reminders, and tags and exposes the cron
// trigger endpoints that drive recurring task regeneration, reminder
// dispatch, and overdue scanning.
package main

import (
	"context"
	"flag"
	"log"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply pending database migrations and exit")
	flag.Parse()

	app, err := newApplication()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := app.runMigrations(); err != nil {
		app.cleanup()
		log.Fatalf("failed to run migrations: %v", err)
	}

	if *migrateOnly {
		app.cleanup()
		return
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
