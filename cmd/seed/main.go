package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"productapi.app/internal/adapters/database"
	"productapi.app/internal/adapters/infrastructure"
	"productapi.app/internal/app"
	"productapi.app/internal/config"
	"productapi.app/internal/core/catalog"
)

type seedOptions struct {
	count int
	batch int
	yes   bool
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found or error loading it")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Seed the product catalog with generated products",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.count < 1 {
				return fmt.Errorf("--count must be positive, got %d", opts.count)
			}
			if opts.batch < 1 {
				return fmt.Errorf("--batch must be positive, got %d", opts.batch)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.count, "count", database.DefaultSeedCount, "Number of products to generate")
	cmd.Flags().IntVar(&opts.batch, "batch", database.DefaultSeedBatch, "Batch size for inserts")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runSeed(ctx context.Context, in io.Reader, out io.Writer, opts *seedOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	app.ConfigureLogging(cfg.Logging)

	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "Product Catalog Seeder")
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintf(out, "\nTarget: %d products\n", opts.count)
	fmt.Fprintf(out, "Batch size: %d\n", opts.batch)
	fmt.Fprintf(out, "Categories: %s\n\n", strings.Join(catalog.Categories, ", "))

	if !opts.yes && !confirm(in, out) {
		fmt.Fprintln(out, "Seeding cancelled.")
		return nil
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	seeder := database.NewSeeder(
		database.NewProductRepositoryAdapter(db),
		infrastructure.NewSlogLoggerAdapter(slog.Default()),
	)

	result, err := seeder.Seed(ctx, opts.count, opts.batch)
	if err != nil {
		return fmt.Errorf("seed database after %d products: %w", result.Inserted, err)
	}

	fmt.Fprintf(out, "\nSuccessfully seeded %d products!\n", result.Inserted)
	fmt.Fprintln(out, "\nDatabase Statistics:")
	for _, category := range catalog.Categories {
		fmt.Fprintf(out, "  %s: %d products\n", category, result.ByCategory[category])
	}
	return nil
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Proceed with seeding? (yes/no): ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true
	default:
		return false
	}
}
