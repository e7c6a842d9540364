package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mansoorceksport/liftlog/internal/config"
	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/repository"
	"github.com/mansoorceksport/liftlog/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	repo := repository.NewMongoExerciseRepository(client.Database(cfg.MongoDB.Database))
	registry := server.NewRegistry(cfg.Training, nil)

	exercises := []domain.Exercise{
		// Legs
		{Title: "Barbell Squat", MuscleGroup: "Legs", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Leg Press", MuscleGroup: "Legs", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Romanian Deadlift", MuscleGroup: "Legs (Hamstrings)", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Walking Lunge", MuscleGroup: "Legs", ExerciseType: domain.ExerciseTypeBodyweight},
		{Title: "Wall Sit", MuscleGroup: "Legs", ExerciseType: domain.ExerciseTypeStaticHold},
		{Title: "Banded Lateral Walk", MuscleGroup: "Legs (Glutes)", ExerciseType: domain.ExerciseTypeBandedResistance},

		// Chest
		{Title: "Barbell Bench Press", MuscleGroup: "Chest", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Incline Dumbbell Press", MuscleGroup: "Chest", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Push Up", MuscleGroup: "Chest", ExerciseType: domain.ExerciseTypeBodyweight},
		{Title: "Dips", MuscleGroup: "Chest/Triceps", ExerciseType: domain.ExerciseTypeBodyweight},

		// Back
		{Title: "Deadlift", MuscleGroup: "Back/Legs", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Barbell Row", MuscleGroup: "Back", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Pull Up", MuscleGroup: "Back", ExerciseType: domain.ExerciseTypeBodyweight},
		{Title: "Band Assisted Pull Up", MuscleGroup: "Back", ExerciseType: domain.ExerciseTypeBandedAssistance},
		{Title: "Band Pull Apart", MuscleGroup: "Back (Rear Delts)", ExerciseType: domain.ExerciseTypeBandedResistance},

		// Shoulders
		{Title: "Overhead Press", MuscleGroup: "Shoulders", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Dumbbell Lateral Raise", MuscleGroup: "Shoulders", ExerciseType: domain.ExerciseTypeRegular},

		// Arms
		{Title: "Barbell Curl", MuscleGroup: "Biceps", ExerciseType: domain.ExerciseTypeRegular},
		{Title: "Band Tricep Pushdown", MuscleGroup: "Triceps", ExerciseType: domain.ExerciseTypeBandedResistance},
		{Title: "Band Assisted Dip", MuscleGroup: "Triceps", ExerciseType: domain.ExerciseTypeBandedAssistance},

		// Core
		{Title: "Plank", MuscleGroup: "Core", ExerciseType: domain.ExerciseTypeStaticHold},
		{Title: "Hollow Body Hold", MuscleGroup: "Core", ExerciseType: domain.ExerciseTypeStaticHold},
		{Title: "Hanging Leg Raise", MuscleGroup: "Core", ExerciseType: domain.ExerciseTypeBodyweight},

		// Conditioning
		{Title: "Rowing Machine", MuscleGroup: "Conditioning", ExerciseType: domain.ExerciseTypeCardio},
		{Title: "Jump Rope", MuscleGroup: "Conditioning", ExerciseType: domain.ExerciseTypeCardio},
	}

	var created, skipped int
	for _, ex := range exercises {
		if _, err := registry.Resolve(ex.ExerciseType); err != nil {
			log.Fatalf("seed entry %q: %v", ex.Title, err)
		}
		if err := repo.Create(ctx, &ex); err != nil {
			if errors.Is(err, domain.ErrDuplicateExercise) {
				fmt.Printf("Skipping duplicate: %s\n", ex.Title)
				skipped++
				continue
			}
			log.Errorf("error creating %s: %v", ex.Title, err)
			continue
		}
		fmt.Printf("Created: %s (%s)\n", ex.Title, ex.ExerciseType)
		created++
	}
	fmt.Printf("Seeding exercises complete: %d created, %d skipped.\n", created, skipped)
}
