// Command schedule runs the auto-assignment for one date from the command
// line, without going through the HTTP API, materializing the day first if it
// does not exist yet. Useful for cron-driven prefills and for inspecting what
// the engine would do.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/config"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/jiak99/tour-scheduler/backend/internal/handler"
	"github.com/jiak99/tour-scheduler/backend/internal/repository"
	"github.com/jiak99/tour-scheduler/backend/internal/scheduler"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		dateFlag    = flag.String("date", "", "date to schedule (YYYY-MM-DD)")
		domainFlag  = flag.String("domain", "tour", "scheduling domain: tour or restaurant")
		patternFlag = flag.String("pattern", "mixed", "shift pattern when materializing a missing restaurant day: mixed or all_8h")
		standbyFlag = flag.Bool("standby", true, "fill the standby slot when none is set")
		dryRun      = flag.Bool("dry-run", false, "compute assignments without writing them")
	)
	flag.Parse()

	if *dateFlag == "" {
		logger.Error("missing -date")
		os.Exit(1)
	}
	date, err := time.ParseInLocation("2006-01-02", *dateFlag, time.UTC)
	if err != nil {
		logger.Error("invalid -date, expected YYYY-MM-DD", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("unable to load configuration", "error", err)
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("unable to create database pool", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("unable to reach the database", "error", err)
		os.Exit(1)
	}

	repo := repository.NewRepository(cfg, dbpool)
	rules := handler.RulesFromConfig(cfg)

	switch *domainFlag {
	case "tour":
		runTour(logger, repo, rules, date, *standbyFlag, *dryRun)
	case "restaurant":
		runRestaurant(logger, repo, rules, date, domain.ShiftPattern(*patternFlag), *dryRun)
	default:
		logger.Error("invalid -domain, expected tour or restaurant")
		os.Exit(1)
	}
}

func runTour(logger *slog.Logger, repo *repository.Repository, rules scheduler.Rules, date time.Time, fillStandby, dryRun bool) {
	day, err := repo.GetTourDayByDate(date)
	if errors.Is(err, sql.ErrNoRows) {
		day, err = repo.MaterializeTourDay(date)
	}
	if err != nil {
		logger.Error("unable to load the tour day", "error", err)
		os.Exit(1)
	}
	roster, err := repo.GetAllGuides()
	if err != nil {
		logger.Error("unable to load the guide roster", "error", err)
		os.Exit(1)
	}
	unavailable, err := repo.UnavailableGuideIDs(date)
	if err != nil {
		logger.Error("unable to load availability", "error", err)
		os.Exit(1)
	}

	result := scheduler.AutoAssignDay(rules, day, roster, unavailable, scheduler.AutoAssignOptions{FillStandby: fillStandby})
	logger.Info("auto-assign finished",
		"assigned", result.AssignedCount,
		"unfillable", result.UnfillableCount,
		"errors", result.Errors,
	)

	if dryRun {
		logger.Info("dry run, nothing written")
		return
	}

	if err := repo.ReplaceTourDayAssignments(day); err != nil {
		logger.Error("unable to save assignments", "error", err)
		os.Exit(1)
	}
	logger.Info("assignments saved", "date", date.Format("2006-01-02"))
}

func runRestaurant(logger *slog.Logger, repo *repository.Repository, rules scheduler.Rules, date time.Time, pattern domain.ShiftPattern, dryRun bool) {
	day, err := repo.GetRestaurantDayByDate(date)
	if errors.Is(err, sql.ErrNoRows) {
		day, err = repo.MaterializeRestaurantDay(date, pattern)
	}
	if err != nil {
		logger.Error("unable to load the restaurant day", "error", err)
		os.Exit(1)
	}
	staff, err := repo.GetAllRestaurantStaff()
	if err != nil {
		logger.Error("unable to load the staff roster", "error", err)
		os.Exit(1)
	}
	unavailable, err := repo.UnavailableStaffIDs(date)
	if err != nil {
		logger.Error("unable to load availability", "error", err)
		os.Exit(1)
	}

	result := scheduler.AssignRestaurantDay(day, staff, unavailable)
	logger.Info("auto-assign finished",
		"kitchen", result.KitchenAssigned,
		"serving", result.ServingAssigned,
		"unfillable", result.UnfillableCount,
		"errors", result.Errors,
	)

	report := scheduler.ValidateRestaurantDay(rules, day, staff, unavailable)
	for _, line := range report.Flatten() {
		logger.Warn(line)
	}

	if dryRun {
		logger.Info("dry run, nothing written")
		return
	}

	if err := repo.ReplaceRestaurantAssignments(day); err != nil {
		logger.Error("unable to save assignments", "error", err)
		os.Exit(1)
	}
	logger.Info("assignments saved", "date", date.Format("2006-01-02"))
}
