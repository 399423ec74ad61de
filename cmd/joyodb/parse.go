package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/joyodb/pkg/db"
	"github.com/japaniel/joyodb/pkg/feed"
	"github.com/japaniel/joyodb/pkg/ingest"
)

func newParseCmd(a *app) *cobra.Command {
	var skipBroken bool
	cmd := &cobra.Command{
		Use:   "parse <table.tsv|table.html>",
		Short: "Parse the table and store every entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("skip-broken") {
				a.cfg.Ingest.SkipBroken = skipBroken
			}
			return a.runParse(cmd, args[0])
		},
	}
	cmd.Flags().BoolVar(&skipBroken, "skip-broken", false, "Skip entries whose notes do not parse (overrides config)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, path string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rows, err := feed.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := feed.Group(rows)
	if err != nil {
		return fmt.Errorf("group %s: %w", path, err)
	}
	a.logger.Info("table read", zap.String("path", path), zap.Int("rows", len(rows)), zap.Int("entries", len(entries)))

	opts, err := a.buildOptions()
	if err != nil {
		return err
	}

	conn, err := db.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	ig := ingest.NewIngester(conn)
	ig.Workers = a.cfg.Ingest.Workers
	ig.BatchSize = a.cfg.Ingest.BatchSize
	ig.FlushInterval = a.cfg.Ingest.FlushInterval
	ig.SkipBroken = a.cfg.Ingest.SkipBroken
	ig.Logger = a.logger
	ig.BuildOptions = opts
	ig.OnProgress = func(current, total int) {
		a.logger.Debug("progress", zap.Int("current", current), zap.Int("total", total))
	}

	res, err := ig.Ingest(ctx, entries)
	if err != nil {
		return err
	}

	counts, err := db.CountReadings(conn)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "saved %d entries to %s\n", res.Saved, a.cfg.Database.Path)
	fmt.Fprintf(out, "readings: %d on, %d kun\n", counts["On"], counts["Kun"])
	if res.Skipped > 0 {
		fmt.Fprintf(out, "skipped %d broken entries:\n", res.Skipped)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  %v\n", e)
		}
	}
	return nil
}
