package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"

	"github.com/mansoorceksport/liftlog/internal/config"
	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
	"github.com/mansoorceksport/liftlog/internal/logging"
	"github.com/mansoorceksport/liftlog/internal/repository"
	"github.com/mansoorceksport/liftlog/internal/server"
	"github.com/mansoorceksport/liftlog/internal/service"
)

func main() {
	userID := flag.String("user", "", "User ID to replay records for (required)")
	exerciseID := flag.String("exercise", "", "Only replay this exercise")
	dryRun := flag.Bool("dry-run", false, "Replay into an in-memory store and print the resulting records")
	timeout := flag.Duration("timeout", 5*time.Minute, "Overall timeout")
	flag.Parse()

	if *userID == "" {
		fmt.Println("Usage: replay_records -user <USER_ID> [-exercise <EXERCISE_ID>] [-dry-run]")
		fmt.Println("\nReplays record detection over a user's performances in chronological order.")
		fmt.Println("Against the live store, performances already processed with identical content are skipped.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logging.Setup(logging.SetupParams{LogLevel: cfg.Logging.Level, LogFormatJSON: cfg.Logging.FormatJSON})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB.Database)

	exercises := repository.NewMongoExerciseRepository(db)
	logs := repository.NewMongoLiftLogRepository(db)

	var (
		records domain.PersonalRecordRepository
		audits  domain.DetectionAuditRepository
		memory  *repository.MemoryPersonalRecordRepository
	)
	if *dryRun {
		memory = repository.NewMemoryPersonalRecordRepository()
		records = memory
		audits = repository.NewMemoryDetectionAuditRepository()
	} else {
		records = repository.NewMongoPersonalRecordRepository(db)
		audits = repository.NewMongoDetectionAuditRepository(db)
	}

	registry := server.NewRegistry(cfg.Training, nil)
	detector := service.NewPRDetectionService(registry, records, audits, repository.NewLocalLocker(), nil, int(cfg.Detection.MaxRetries))

	exerciseIDs := []string{*exerciseID}
	if *exerciseID == "" {
		exerciseIDs, err = logs.ListExerciseIDsByUser(ctx, *userID)
		if err != nil {
			log.Fatalf("failed to list exercises: %v", err)
		}
	}

	var (
		errs           error
		logsReplayed   int
		logsSkipped    int
		recordsCreated = make(map[domain.PRType]int)
	)
	for _, id := range exerciseIDs {
		ex, err := exercises.GetByID(ctx, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exercise %s: %w", id, err))
			continue
		}
		history, err := logs.ListByUserAndExercise(ctx, *userID, id)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("exercise %s: %w", id, err))
			continue
		}

		fmt.Printf("%s (%s): %d performances\n", ex.Title, ex.ExerciseType, len(history))
		results, err := detector.Replay(ctx, ex, history)
		errs = multierr.Append(errs, err)
		for _, res := range results {
			logsReplayed++
			if res.Skipped {
				logsSkipped++
			}
			for _, rec := range res.Created {
				recordsCreated[rec.PRType]++
			}
		}

		if memory != nil {
			printCurrent(ctx, registry, memory, ex, *userID)
		}
	}

	fmt.Println("-------------------------------------------")
	fmt.Printf("Performances replayed: %d (skipped %d)\n", logsReplayed, logsSkipped)
	for _, t := range domain.PRTypeOrder {
		if n := recordsCreated[t]; n > 0 {
			fmt.Printf("  %-13s %d records\n", t, n)
		}
	}
	if *dryRun {
		fmt.Println("\nThis was a dry run. No records were written.")
	}

	if errs != nil {
		for _, err := range multierr.Errors(errs) {
			log.WithError(err).Error("replay failed")
		}
		os.Exit(1)
	}
}

func printCurrent(ctx context.Context, registry *exercisetype.Registry, store *repository.MemoryPersonalRecordRepository, ex *domain.Exercise, userID string) {
	current, err := store.ListCurrent(ctx, userID, ex.ID)
	if err != nil {
		log.WithError(err).Warn("failed to list replayed records")
		return
	}
	st := registry.ResolveSafe(ex)
	for _, rec := range current {
		row := st.FormatStanding(rec, domain.PerformanceMetrics{})
		fmt.Printf("  %-20s %s\n", row.Label, row.Value)
	}
}
