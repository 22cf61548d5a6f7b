package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/napcet/3mf-reader/core/config"
	"github.com/napcet/3mf-reader/core/database"
	"github.com/napcet/3mf-reader/core/logger"
	"github.com/napcet/3mf-reader/core/storage"
	"github.com/napcet/3mf-reader/feature/project/catalog"
	"github.com/napcet/3mf-reader/feature/project/extract"
	"github.com/napcet/3mf-reader/feature/project/publish"
	"github.com/napcet/3mf-reader/feature/project/report"
)

var (
	// Flags for the extract command
	gcodePath     string
	outputDir     string
	writeReport   bool
	publishReport bool
	saveHistory   bool
	quietExtract  bool
	noPromptGCode bool
)

// extractCmd extracts a single container and prints its summary.
var extractCmd = &cobra.Command{
	Use:   "extract <project.3mf>",
	Short: "Extract settings and statistics from a 3MF project",
	Long: `Extract print settings, filaments, plates and G-code statistics from a
3MF project container.

The summary is printed as JSON. A sibling .gcode file is correlated
automatically; when several candidates match you are prompted to pick one.

Examples:
  # Print the summary
  3mf-reader extract benchy.3mf

  # Pin the machine-control file explicitly
  3mf-reader extract benchy.3mf --gcode benchy_plate1.gcode

  # Write a Markdown report next to the summary
  3mf-reader extract benchy.3mf --report --output ./reports

  # Publish the report to the configured object store
  3mf-reader extract benchy.3mf --report --publish`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&gcodePath, "gcode", "", "Explicit G-code file (skips candidate resolution)")
	extractCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for generated reports (defaults to config)")
	extractCmd.Flags().BoolVar(&writeReport, "report", false, "Write a Markdown report")
	extractCmd.Flags().BoolVar(&publishReport, "publish", false, "Publish the report to object storage")
	extractCmd.Flags().BoolVar(&saveHistory, "save", false, "Record the extraction in the history database")
	extractCmd.Flags().BoolVarP(&quietExtract, "quiet", "q", false, "Only log warnings and errors")
	extractCmd.Flags().BoolVar(&noPromptGCode, "no-prompt", false, "Never prompt for a G-code candidate, leave ambiguity unresolved")

	RootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if quietExtract {
		cfg.Log.Level = "warn"
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	opts := extract.Options{
		GCodePath:              gcodePath,
		ColorDistanceThreshold: cfg.Project.ColorDistanceThreshold,
		Logger:                 l,
	}
	// Quiet runs are non-interactive too.
	if !noPromptGCode && !quietExtract {
		opts.Chooser = promptGCodeChoice
	}

	summary, err := extract.New(args[0], opts).Extract()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	fmt.Println(string(data))

	if summary.Statistics != nil {
		l.Info("Print statistics",
			zap.String("time", summary.Statistics.FormatTime()),
			zap.Float64("weight_g", summary.Statistics.TotalWeightGrams),
			zap.Float64("cost", summary.Statistics.TotalCost))
	} else {
		l.Info("Project is not sliced, no print statistics available")
	}

	gen := report.NewGenerator(summary, report.Options{Currency: cfg.Project.Currency})

	if writeReport {
		dir := outputDir
		if dir == "" {
			dir = cfg.Project.OutputDir
		}
		path, err := gen.Save(dir)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		l.Info("Report written", zap.String("path", path))
	}

	if publishReport {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		pub := publish.NewPublisher(client, cfg.Storage.Bucket, l)
		reportName, summaryName, err := pub.Publish(ctx, summary, gen.Generate())
		if err != nil {
			return fmt.Errorf("failed to publish report: %w", err)
		}
		l.Info("Report published",
			zap.String("report", reportName),
			zap.String("summary", summaryName))
	}

	if saveHistory {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		store := catalog.NewStore(db)
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("failed to migrate history schema: %w", err)
		}
		rec, err := store.Save(ctx, summary)
		if err != nil {
			return fmt.Errorf("failed to record extraction: %w", err)
		}
		l.Info("Extraction recorded", zap.String("id", rec.ID))
	}

	return nil
}

// promptGCodeChoice asks the user to pick one of several G-code candidates.
func promptGCodeChoice(candidates []string) string {
	fmt.Println("\nMultiple G-code files found:")
	for i, c := range candidates {
		fmt.Printf("  %d) %s\n", i+1, c)
	}
	fmt.Print("Pick one (empty to skip): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return ""
	}
	idx, err := strconv.Atoi(response)
	if err != nil || idx < 1 || idx > len(candidates) {
		fmt.Println("Invalid choice, skipping G-code statistics.")
		return ""
	}
	return candidates[idx-1]
}
