package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"techdocs/internal/config"
	"techdocs/internal/llm"
	"techdocs/internal/repository/postgres"
	"techdocs/internal/service"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample data")
	clearData := flag.Bool("clear-data", false, "Clear all assets and user stories (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared successfully")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	assetRepo := postgres.NewAssetRepository(repoConfig)
	storyRepo := postgres.NewUserStoryRepository(repoConfig)

	embedder := llm.NewEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbeddingModel)
	assetService := service.NewAssetService(assetRepo, embedder, logger)
	storyService := service.NewUserStoryService(storyRepo, logger)

	log.Println("Seeding documentation assets...")
	documents := seedAssets()
	for i, markdown := range documents {
		asset, err := assetService.CreateFromMarkdown(ctx, markdown)
		if err != nil {
			log.Printf("Failed to create asset %d: %v", i+1, err)
			continue
		}
		log.Printf("Created asset %d/%d: %s (ID: %s)", i+1, len(documents), asset.Title, asset.ID)
	}

	log.Println("Seeding sample user story...")
	story, err := storyService.Create(ctx, sampleUserStory())
	if err != nil {
		log.Printf("Failed to create user story: %v", err)
	} else {
		log.Printf("Created user story: %s (ID: %s)", story.Title, story.ID)
	}

	log.Println("Seeding complete")
}

// dropAllTables drops all tables
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Assets, tables.UserStories} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  Dropped %s", table)
	}
	return nil
}

// clearAllData removes every row while keeping the schema in place
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Assets, tables.UserStories} {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func seedAssets() []string {
	return []string{
		`# Device Registration

Managed Print Central tracks every printer in the fleet. New devices register
through the discovery agent, which reports the serial number, model and
network address.

## Registration Flow

1. The discovery agent scans the configured subnets.
2. Detected devices are matched against the known-device registry.
3. Unknown devices are queued for administrator approval.
4. Approved devices receive a monitoring profile.

## Notes

Devices behind NAT must be registered manually with their public endpoint.
The frontend is Angular and the API runs on .NET Core against PostgreSQL.`,

		`# Consumables Monitoring

Toner and drum levels are polled every fifteen minutes. Thresholds are
configurable per device model.

## Alerts

- Warning at 20% remaining
- Critical at 5% remaining
- Automatic supply order when a critical alert fires and auto-ordering is enabled

Alert history is retained for twelve months for reporting.`,

		`# Usage Reporting

Monthly usage reports aggregate page counts per device, per department and
per cost center.

## Report Types

- Device utilization summary
- Departmental chargeback
- Color versus monochrome breakdown

Reports export to CSV and PDF. Scheduled reports are delivered by email on
the first business day of each month.`,
	}
}

func sampleUserStory() service.UserStoryInput {
	return service.UserStoryInput{
		Title:       "Bulk Device Import",
		Description: "As a fleet administrator, I want to import devices from a CSV file so that onboarding a new customer site does not require registering printers one at a time.",
		Actors:      []string{"Fleet Administrator"},
		Preconditions: []string{
			"Administrator is authenticated",
			"CSV file follows the published import template",
		},
		Postconditions: []string{
			"All valid rows exist as registered devices",
			"Invalid rows are reported with line numbers",
		},
		MainFlow: []string{
			"Administrator uploads the CSV file",
			"System validates each row against the device schema",
			"System registers valid devices and assigns monitoring profiles",
			"System presents an import summary",
		},
		AlternativeFlows: []string{
			"If every row is invalid, no devices are registered and the full error report is shown",
		},
		BusinessRules: []string{
			"Serial numbers must be unique across the fleet",
		},
		DataRequirements: []string{
			"Serial number, model, network address, department per row",
		},
		NonFunctionalRequirements: []string{
			"Imports of up to 10,000 rows complete within one minute",
		},
		Assumptions: []string{
			"Devices are reachable on the corporate network",
		},
	}
}
