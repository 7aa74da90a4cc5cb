// Package cmd provides the moneylens CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/avollmer/moneylens/internal/config"
	"github.com/avollmer/moneylens/internal/logger"
	"github.com/avollmer/moneylens/internal/render"
)

var (
	cfgFile      string
	debug        bool
	formatFlag   string
	snapshotFlag string

	cfg       config.Config
	outFormat render.Format
	log       zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "moneylens",
	Short: "Analyze personal-finance ledger data",
	Long: `moneylens reads a ledger snapshot from your finance application and
answers questions the application itself cannot: spending per category
against budgets, cashflow over time, recurring payments, merchant and
customer rankings, balance history and rule suggestions for
uncategorized transactions.

It reads from a local or gs:// snapshot export, or from a BigQuery
mirror of the same data.

Example:
  moneylens accounts
  moneylens analyze spending --period last-month --compare previous
  moneylens suggest-rules --assist`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		outFormat, err = render.ParseFormat(formatFlag)
		if err != nil {
			return err
		}

		cfg = config.Load(cfgFile)
		if snapshotFlag != "" {
			cfg.Source.Type = config.SourceSnapshot
			cfg.Source.Snapshot = snapshotFlag
		}

		log = logger.New(debug)
		log.Debug().
			Str("source", cfg.Source.Type).
			Str("format", string(outFormat)).
			Msg("configured")
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/moneylens/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "table", "output format: table, json or csv")
	rootCmd.PersistentFlags().StringVar(&snapshotFlag, "snapshot", "", "snapshot file path or gs:// URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(categoryUsageCmd)
	rootCmd.AddCommand(transfersCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(suggestRulesCmd)
}
