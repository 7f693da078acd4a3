package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/movequote/internal/config"
)

func main() {
	cfg := config.Load()

	rootCmd := &cobra.Command{
		Use:          "quotectl",
		Short:        "Estimate and price moving jobs from job files",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")

	rootCmd.AddCommand(estimateCmd())
	rootCmd.AddCommand(priceCmd(&cfg))
	rootCmd.AddCommand(exportCmd(&cfg))
	rootCmd.AddCommand(migrateCmd(&cfg))
	rootCmd.AddCommand(seedCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func estimateCmd() *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "estimate [job-file]",
		Short: "Estimate boxes, materials and packing labor for a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(cmd.OutOrStdout(), args[0], opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func priceCmd(cfg *config.Config) *cobra.Command {
	var (
		opts outputOptions
		save bool
	)

	cmd := &cobra.Command{
		Use:   "price [job-file]",
		Short: "Price a moving job and print its itemized charges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrice(cmd.Context(), cmd.OutOrStdout(), *cfg, args[0], opts, save)
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "store the charge set in the database")
	return cmd
}

func exportCmd(cfg *config.Config) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export [job-id]",
		Short: "Write a stored charge set as an xlsx or pdf sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), *cfg, args[0], format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "xlsx or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default charges-<job-id>.<format>)")
	return cmd
}

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.OutOrStdout(), *cfg)
		},
	}
}

func seedCmd(cfg *config.Config) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in hourly rate tables to the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.OutOrStdout(), *cfg, overwrite)
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace rates that were edited in the database")
	return cmd
}
