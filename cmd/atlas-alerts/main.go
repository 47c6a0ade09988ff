package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/atlascli"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/excel"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/tracking"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/pkg/config"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/pkg/logger"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	projectID := flag.String("project-id", "", "MongoDB Atlas project ID (required)")
	excelFile := flag.String("excel-file", cfg.ExcelFile, "Path to the alert definition workbook")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Directory for generated JSON files")
	notificationEmail := flag.String("notification-email", cfg.NotificationEmail, "Email address to add to notifications")
	notificationRoles := flag.String("notification-roles", cfg.NotificationRoles, "Comma-separated roles for notifications")
	dryRun := flag.Bool("dry-run", false, "Generate JSON files without creating alerts")
	deleteExisting := flag.Bool("delete-existing", false, "Delete automation-created alerts and exit")
	deleteAll := flag.Bool("delete-all", false, "Delete ALL alerts on the project (including defaults) and exit")
	flag.Parse()

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if *projectID == "" {
		log.Error("missing required flag -project-id")
		flag.Usage()
		os.Exit(2)
	}

	catalog, err := domain.NewCatalog()
	if err != nil {
		log.Error("invalid alert mapping catalog", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := atlascli.NewClient(log)
	trackingStore := tracking.NewStore(cfg.TrackingFile, log)

	if *deleteAll {
		if !confirm("WARNING: this deletes ALL alerts including default Atlas alerts.\nType 'delete all' to confirm: ", "delete all") {
			log.Info("cancelled")
			return
		}
		runDeletion(ctx, log, api, trackingStore, *projectID, true)
		return
	}

	if *deleteExisting {
		if !confirm("Delete automation-created alerts? Default alerts will NOT be deleted (yes/no): ", "yes") {
			log.Info("cancelled")
			return
		}
		runDeletion(ctx, log, api, trackingStore, *projectID, false)
		return
	}

	if !*dryRun {
		if err := api.EnsureAvailable(ctx); err != nil {
			log.Error("atlas CLI check failed", "error", err)
			os.Exit(1)
		}
		log.Info("atlas CLI check passed")
	}

	log.Info("generating alert configurations",
		"project_id", *projectID, "excel_file", *excelFile)

	roles := splitRoles(*notificationRoles)
	rows := excel.NewReader(*excelFile, log)
	generate := usecase.NewGenerateConfigsUseCase(rows, catalog, *outputDir, roles, *notificationEmail, log)

	generated, err := generate.Generate()
	if err != nil {
		log.Error("failed to generate alert configurations", "error", err)
		os.Exit(1)
	}
	if len(generated) == 0 {
		log.Error("no alert configurations were generated")
		os.Exit(1)
	}
	log.Info("generated alert configuration files", "count", len(generated))

	if *dryRun {
		log.Info("dry run mode, no alerts will be created")
	}

	provision := usecase.NewProvisionAlertsUseCase(api, trackingStore, log)
	summary, err := provision.Provision(ctx, generated, *projectID, *dryRun)
	if err != nil {
		log.Error("provisioning failed", "error", err)
		os.Exit(1)
	}

	log.Info("provisioning summary",
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed)
	for _, failure := range summary.Failures {
		log.Error("alert was not created", "name", failure.Name, "reason", failure.Error)
	}

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func runDeletion(ctx context.Context, log *slog.Logger, api *atlascli.Client, store *tracking.Store, projectID string, all bool) {
	if err := api.EnsureAvailable(ctx); err != nil {
		log.Error("atlas CLI check failed", "error", err)
		os.Exit(1)
	}

	deleteUC := usecase.NewDeleteAlertsUseCase(api, store, log)

	var deleted int
	var err error
	if all {
		deleted, err = deleteUC.DeleteAll(ctx, projectID)
	} else {
		deleted, err = deleteUC.DeleteTracked(ctx, projectID)
	}
	if err != nil {
		log.Error("failed to delete alerts", "error", err)
		os.Exit(1)
	}
	log.Info("alerts deleted", "count", deleted)
}

// confirm prompts on stdin and reports whether the operator typed the exact
// expected phrase (case-insensitive).
func confirm(prompt, expected string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), expected)
}

func splitRoles(raw string) []string {
	var roles []string
	for _, role := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(role); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}
