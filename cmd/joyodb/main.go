package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/japaniel/joyodb/pkg/config"
	"github.com/japaniel/joyodb/pkg/joyo"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	configPath string
	dbPath     string
	jmdictPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "joyodb",
		Short: "Parse the Jōyō kanji table into a SQLite database",
		Long: `joyodb parses the Jōyō kanji table (TSV or HTML) into structured
kanji, readings, examples and notes, stores them in SQLite and cross-checks
the result against morphological and JMdict dictionaries.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default $JOYODB_CONFIG or ./joyodb.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVar(&a.jmdictPath, "jmdict", "", "jmdict-simplified JSON file (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newParseCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newCheckCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.jmdictPath != "" {
		cfg.JMdict.Path = a.jmdictPath
	}
	a.cfg = cfg

	level, _ := cfg.Log.ZapLevel()
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = cfg.Log.Format
	if cfg.Log.Format == "console" {
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	a.logger, err = zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// buildOptions returns the joyo options every parsed entry gets.
func (a *app) buildOptions() ([]joyo.Option, error) {
	opts := []joyo.Option{joyo.WithLogger(a.logger)}
	if a.cfg.Tables.PopularAlternatives != "" {
		tables, err := joyo.LoadTables(a.cfg.Tables.PopularAlternatives, a.cfg.Tables.Variants)
		if err != nil {
			return nil, fmt.Errorf("load tables: %w", err)
		}
		opts = append(opts, joyo.WithTables(tables))
	}
	return opts, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
