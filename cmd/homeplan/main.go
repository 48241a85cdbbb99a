package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/homeplan/internal/cli"
	"github.com/alexanderramin/homeplan/internal/config"
	"github.com/alexanderramin/homeplan/internal/db"
	"github.com/alexanderramin/homeplan/internal/notify"
	"github.com/alexanderramin/homeplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.Logger(os.Stderr)

	calendar, err := cfg.Calendar()
	if err != nil {
		return fmt.Errorf("building calendar: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	uow := db.NewSQLiteUnitOfWork(database)
	observer := service.NewSlogUseCaseObserver(logger)

	// Notifications are delivered off the request path; flush before exit.
	events := notify.NewDispatcher(notify.NewLogNotifier(logger), logger)
	defer events.Wait()

	// One lock table for every service so a home is mutated by one writer.
	locks := service.NewHomeLocks()

	app := &cli.App{
		Templates: service.NewTemplateService(uow, observer),
		Homes:     service.NewHomeService(uow, calendar, locks, events, observer),
		Tasks:     service.NewTaskService(uow, calendar, locks, events, observer),
		Gates:     service.NewGateService(uow, observer),
		Punches:   service.NewPunchService(uow, locks, observer),
		Plain:     !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
