// Command corpusctl manages the chapter corpus from the command line.
// It talks to the same database as the server, so imports done here are
// immediately visible to schedule generation.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"text/tabwriter"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/phrazzld/hifz-api/internal/config"
	"github.com/phrazzld/hifz-api/internal/corpus"
	"github.com/phrazzld/hifz-api/internal/platform/logger"
	"github.com/phrazzld/hifz-api/internal/platform/postgres"
	"github.com/phrazzld/hifz-api/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:           "corpusctl",
		Short:         "Manage the study corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(
		&databaseURL,
		"database-url",
		"",
		"Postgres connection string (overrides DATABASE_URL)",
	)

	cmd.AddCommand(
		newImportCmd(&databaseURL),
		newListCmd(&databaseURL),
	)

	return cmd
}

// openCorpusService loads configuration, connects to the database, runs
// migrations, and returns a ready CorpusService plus a cleanup func.
// A non-empty databaseURL takes precedence over the configured one.
func openCorpusService(ctx context.Context, databaseURL string) (service.CorpusService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}
	if databaseURL != "" {
		cfg.Database.URL = databaseURL
	}

	log := logger.Setup(cfg.Server)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	if err := db.PingContext(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("pinging database: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	chapterStore := postgres.NewPostgresChapterStore(db, log)
	chapterRepo := service.NewChapterRepositoryAdapter(chapterStore, db)

	corpusService, err := service.NewCorpusService(chapterRepo, log)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("creating corpus service: %w", err)
	}

	return corpusService, cleanup, nil
}

func newImportCmd(databaseURL *string) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import chapter metadata from a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			file, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", csvPath, err)
			}
			defer func() { _ = file.Close() }()

			chapters, err := corpus.ParseCSV(file)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", csvPath, err)
			}

			corpusService, cleanup, err := openCorpusService(ctx, *databaseURL)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := corpusService.Import(ctx, chapters); err != nil {
				return fmt.Errorf("importing corpus: %w", err)
			}

			fmt.Printf("Imported %d chapters from %s\n", len(chapters), csvPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Path to the chapter metadata CSV file")
	_ = cmd.MarkFlagRequired("csv")

	return cmd
}

func newListCmd(databaseURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the imported chapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			corpusService, cleanup, err := openCorpusService(ctx, *databaseURL)
			if err != nil {
				return err
			}
			defer cleanup()

			chapters, err := corpusService.ListChapters(ctx)
			if err != nil {
				return fmt.Errorf("listing chapters: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ORDINAL\tNAME\tPAGES\tRANGE")
			for _, c := range chapters {
				fmt.Fprintf(
					w,
					"%d\t%s\t%d\t%d-%d\n",
					c.Ordinal,
					c.NamePrimary,
					c.PageCount,
					c.StartPage,
					c.EndPage,
				)
			}
			return w.Flush()
		},
	}
}
