package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/napcet/3mf-reader/core/config"
	"github.com/napcet/3mf-reader/core/database"
	"github.com/napcet/3mf-reader/core/loader"
	"github.com/napcet/3mf-reader/core/logger"
	"github.com/napcet/3mf-reader/core/middleware/auth"
	"github.com/napcet/3mf-reader/core/middleware/rayid"
	"github.com/napcet/3mf-reader/core/storage"
	"github.com/napcet/3mf-reader/feature/project"
	"github.com/napcet/3mf-reader/feature/project/catalog"
	"github.com/napcet/3mf-reader/feature/project/publish"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Optional)
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed, history disabled", zap.Error(err))
		} else {
			db = conn
			prepareHistorySchema(conn, logg)
			logg.Info("Connected to history database", zap.String("database", cfg.Database.Name))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimitBytes(),
		})

		// 5. Initialize Storage (Optional, publishing only)
		var publisher *publish.Publisher
		if store, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed, publishing disabled", zap.Error(err))
		} else {
			publisher = publish.NewPublisher(store, cfg.Storage.Bucket, logg)
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(project.NewFeature(cfg.Project, logg, db, publisher))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// prepareHistorySchema migrates the history table and warns about drift.
func prepareHistorySchema(db *gorm.DB, logg *zap.Logger) {
	store := catalog.NewStore(db)
	if err := store.Migrate(); err != nil {
		logg.Warn("History schema migration failed", zap.Error(err))
		return
	}

	missing, err := database.MissingColumns(db, catalog.Record{}.TableName(), catalog.ExpectedColumns)
	if err != nil {
		logg.Warn("History schema inspection failed", zap.Error(err))
		return
	}
	if len(missing) > 0 {
		logg.Warn("History table is missing columns", zap.Strings("columns", missing))
	}
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
