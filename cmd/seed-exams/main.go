package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/certifyai/certify-backend/internal/config"
	"github.com/certifyai/certify-backend/internal/database"
	"github.com/certifyai/certify-backend/internal/logger"
	"github.com/certifyai/certify-backend/internal/model"
	"github.com/certifyai/certify-backend/internal/repository"
)

// seed-exams loads exam definition JSON files from a directory and upserts
// them into the catalog. Re-running is safe; exams are keyed by id.
func main() {
	var dir string
	flag.StringVar(&dir, "dir", "seed/exams", "Directory of exam JSON files")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	examRepo := repository.NewExamRepository(pool)

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", dir).Msg("Failed to read seed directory")
	}

	seeded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read exam file")
		}

		var exam model.Exam
		if err := json.Unmarshal(raw, &exam); err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Invalid exam JSON")
		}
		if exam.ID == "" || exam.Name == "" || len(exam.Questions) == 0 {
			log.Fatal().Str("file", path).Msg("Exam must have id, name, and questions")
		}

		if err := examRepo.Upsert(ctx, &exam); err != nil {
			log.Fatal().Err(err).Str("exam_id", exam.ID).Msg("Upsert failed")
		}

		fmt.Printf("Seeded %s (%d questions)\n", exam.ID, len(exam.Questions))
		seeded++
	}

	fmt.Printf("Done. %d exams seeded.\n", seeded)
}
