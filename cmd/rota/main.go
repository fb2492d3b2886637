package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/rota-api-go/pkg/app"
	"github.com/arnavshah/rota-api-go/pkg/auth"
	"github.com/arnavshah/rota-api-go/pkg/config"
	"github.com/arnavshah/rota-api-go/pkg/database"
	"github.com/arnavshah/rota-api-go/pkg/logging"
	"github.com/arnavshah/rota-api-go/pkg/models"
	"github.com/arnavshah/rota-api-go/pkg/planning"
	"github.com/arnavshah/rota-api-go/pkg/render"
	"github.com/arnavshah/rota-api-go/pkg/rollover"
	"github.com/arnavshah/rota-api-go/pkg/storage"
)

type generateOptions struct {
	year         int
	month        int
	rosterPath   string
	availability string
	format       string
	streakLimit  int
	noDouble     bool
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "rota",
		Short:         "Build and maintain monthly shift rotas.",
		Long:          `rota generates fair monthly shift rotas from a staff roster and requested days off, and runs maintenance tasks against the rota database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error).")

	logger := func() (*zap.Logger, error) { return logging.New(logLevel) }

	rootCmd.AddCommand(newGenerateCmd(logger))
	rootCmd.AddCommand(newHashPinCmd())
	rootCmd.AddCommand(newArchiveCheckCmd(logger))
	return rootCmd
}

func newGenerateCmd(logger func() (*zap.Logger, error)) *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the rota for a month.",
		Long:  `Generates the rota for a month (next month by default) and prints it as a calendar table, CSV or JSON.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runGenerate(cmd.OutOrStdout(), opts, time.Now(), log)
		},
	}
	cmd.Flags().IntVar(&opts.year, "year", 0, "Year to plan (default: year of next month).")
	cmd.Flags().IntVar(&opts.month, "month", 0, "Month to plan, 1-12 (default: next month).")
	cmd.Flags().StringVar(&opts.rosterPath, "roster", os.Getenv("ROSTER_PATH"), "Path to the YAML roster file.")
	cmd.Flags().StringVar(&opts.availability, "availability", "", "Path to a YAML file mapping staff id to days off.")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table, csv or json.")
	cmd.Flags().IntVar(&opts.streakLimit, "max-streak", 5, "Consecutive days after which staff are only used as a fallback.")
	cmd.Flags().BoolVar(&opts.noDouble, "no-double-booking", false, "Leave slots empty instead of giving someone a second shift on the same day.")
	return cmd
}

func runGenerate(out io.Writer, opts generateOptions, now time.Time, log *zap.Logger) error {
	roster, err := config.LoadRoster(opts.rosterPath)
	if err != nil {
		return err
	}
	sched, err := app.NewScheduler(config.SchedulerConfig{
		StreakLimit:        opts.streakLimit,
		AllowDoubleBooking: !opts.noDouble,
	}, roster, log)
	if err != nil {
		return err
	}

	availability := models.Availability{}
	if opts.availability != "" {
		if availability, err = loadAvailability(opts.availability); err != nil {
			return err
		}
	}

	year, month := planning.NextMonth(now)
	if opts.year != 0 {
		year = opts.year
	}
	if opts.month != 0 {
		month = time.Month(opts.month)
	}

	result, err := sched.Generate(year, month, roster.Staff, availability)
	if err != nil {
		return err
	}

	switch opts.format {
	case "table":
		_, err = io.WriteString(out, render.Terminal(result, roster.Staff))
	case "csv":
		err = render.WriteCSV(out, result)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	return err
}

func loadAvailability(path string) (models.Availability, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	availability := models.Availability{}
	if err := yaml.Unmarshal(data, &availability); err != nil {
		return nil, fmt.Errorf("failed to decode availability %s: %w", path, err)
	}
	return availability, nil
}

func newHashPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Print the bcrypt hash of an access PIN.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPIN(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newArchiveCheckCmd(logger func() (*zap.Logger, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "archive-check",
		Short: "Run the monthly rollover now if it is due.",
		Long:  `Archives the stored rota into history and clears the working set when today is the 1st and the rollover has not run yet. Uses the same environment configuration as the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.InitDB(cfg.Database, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			out, err := rollover.NewService(storage.NewGormStore(db), cfg.Planning, log).CheckOnce(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(out)
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
