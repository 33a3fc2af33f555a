// Command reconcile finds auth records whose local user row is gone (a
// deletion that failed between the local delete and the credential delete)
// and, with -apply, finishes the deletion. Writes an .xlsx report for the
// operator either way.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/glp1care/companion-api/internal/config"
	pgRepo "github.com/glp1care/companion-api/internal/repository/postgres"
	"github.com/glp1care/companion-api/internal/service"
	"github.com/glp1care/companion-api/pkg/database"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

func main() {
	apply := flag.Bool("apply", false, "delete orphaned auth records instead of only reporting them")
	out := flag.String("out", "", "report path (default reconcile-report-<date>.xlsx)")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	authAdmin, err := gotrue.NewAdminClient(cfg.Supabase.AuthURL, cfg.Supabase.ServiceRoleKey)
	if err != nil {
		log.Fatalf("Failed to initialize auth admin client: %v", err)
	}

	userRepo := pgRepo.NewUserRepo(db)

	reconciler, err := service.NewReconcileService(
		authAdmin,
		userRepo,
		time.Duration(cfg.Reconcile.GracePeriodMinutes)*time.Minute,
		cfg.Reconcile.PageSize,
	)
	if err != nil {
		log.Fatalf("Failed to initialize reconcile service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	report, err := reconciler.Run(ctx, *apply)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}

	reportPath := *out
	if reportPath == "" {
		reportPath = fmt.Sprintf("reconcile-report-%s.xlsx", time.Now().Format("2006-01-02"))
	}
	if err := service.WriteReportXLSX(report, reportPath); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	fmt.Printf("Scanned %d auth users, found %d orphaned credentials, deleted %d.\n",
		report.ScannedUsers, len(report.Orphans), report.DeletedCount)
	fmt.Printf("Report written to %s\n", reportPath)
	if !*apply && len(report.Orphans) > 0 {
		fmt.Println("Run again with -apply to delete the orphaned credentials.")
	}
}
