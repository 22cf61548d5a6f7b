package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/napcet/3mf-reader/core/config"
	"github.com/napcet/3mf-reader/core/database"
	"github.com/napcet/3mf-reader/core/logger"
	"github.com/napcet/3mf-reader/core/reconcile"
	"github.com/napcet/3mf-reader/core/storage"
	"github.com/napcet/3mf-reader/feature/project/catalog"
	"github.com/napcet/3mf-reader/feature/project/publish"
)

var (
	// Flags for the reconcile command
	purgeOrphans bool
	dryRunAudit  bool
	yesConfirm   bool
)

// reconcileCmd audits published reports against the extraction history.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Audit published reports against extraction history",
	Long: `Audit the object store against the extraction history database.

Reports projects that were recorded but never published, and published
objects with no matching history record. Optionally purge the orphans.

Examples:
  # Report only
  3mf-reader reconcile

  # Purge orphan objects (with interactive confirmation)
  3mf-reader reconcile --purge

  # Purge with auto-confirm (non-interactive)
  3mf-reader reconcile --purge --yes`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&purgeOrphans, "purge", false, "Enable purge (delete published objects with no history record)")
	reconcileCmd.Flags().BoolVar(&dryRunAudit, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	reconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	l.Info("Starting report audit")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	// Gather both sides of the audit.
	records, err := catalog.NewStore(db).All(ctx)
	if err != nil {
		return err
	}
	entries := make([]reconcile.Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, reconcile.Entry{
			ID:   rec.ID,
			Name: rec.Title,
			Stem: publish.ObjectStem(rec.Title),
		})
	}

	objects, err := publish.NewPublisher(client, cfg.Storage.Bucket, l).List(ctx)
	if err != nil {
		return err
	}

	opts := reconcile.Options{
		DoPurge: purgeOrphans,
		DryRun:  dryRunAudit,
	}
	plan := reconcile.BuildPlan(entries, objects, opts)
	printAuditReport(l, plan)

	if !purgeOrphans {
		l.Info("No actions requested. Use --purge to delete orphan objects.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}
	if dryRunAudit {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}

	if !confirmDestructiveAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying actions...")
	executed, err := reconcile.Apply(ctx, client, cfg.Storage.Bucket, plan, opts)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printAuditReport prints a formatted audit report using the logger.
func printAuditReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Audit report",
		zap.Int("total_stems", s.TotalStems),
		zap.Int("unpublished", s.Unpublished),
		zap.Int("orphan_stems", s.OrphanStems),
		zap.Int("orphan_objects", s.OrphanObjects),
	)

	if len(plan.Actions) > 0 {
		l.Info("Planned actions", zap.Int("total_actions", len(plan.Actions)))

		maxShow := 5
		if len(plan.Actions) < maxShow {
			maxShow = len(plan.Actions)
		}
		for i := 0; i < maxShow; i++ {
			a := plan.Actions[i]
			l.Info("Planned action",
				zap.String("type", string(a.Type)),
				zap.String("object", a.ObjectName))
		}
		if len(plan.Actions) > maxShow {
			l.Info("More actions omitted", zap.Int("remaining", len(plan.Actions)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
