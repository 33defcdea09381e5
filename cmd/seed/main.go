package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/database/migration"
	"talent-match/internal/database/postgres"
	"talent-match/internal/database/seeder"

	"github.com/joho/godotenv"
)

func main() {
	migrate := flag.Bool("migrate", true, "apply pending migrations before seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to read .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if *migrate {
		if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}

	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seeded jobs=%d resumes=%d", len(seeder.SampleJobs), len(seeder.SampleResumes))
}
