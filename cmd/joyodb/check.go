package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/japaniel/joyodb/pkg/crosscheck"
	"github.com/japaniel/joyodb/pkg/feed"
	"github.com/japaniel/joyodb/pkg/jmdict"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <table.tsv|table.html>",
		Short: "Cross-check parsed readings against the IPA dictionary and JMdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args[0])
		},
	}
}

func (a *app) loadIndex(ctx context.Context) (*jmdict.Index, error) {
	path := a.cfg.JMdict.Path
	if a.cfg.JMdict.AutoDownload {
		if err := jmdict.EnsureDictionary(ctx, path, a.logger); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	entries, err := jmdict.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	a.logger.Info("dictionary loaded", zap.Int("entries", len(entries)), zap.Duration("took", time.Since(start)))
	return jmdict.NewIndex(entries), nil
}

func (a *app) runCheck(cmd *cobra.Command, path string) error {
	rows, err := feed.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	opts, err := a.buildOptions()
	if err != nil {
		return err
	}
	kanji, err := feed.Parse(rows, opts...)
	if err != nil {
		return err
	}

	analyzer, err := crosscheck.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	out := cmd.OutOrStdout()
	findings := analyzer.Check(kanji)
	for _, f := range findings {
		fmt.Fprintln(out, f)
	}
	fmt.Fprintf(out, "%d conjugation findings in %d entries\n", len(findings), len(kanji))

	if a.cfg.JMdict.Path == "" {
		return nil
	}
	index, err := a.loadIndex(cmd.Context())
	if err != nil {
		return err
	}
	unconfirmed := 0
	for _, k := range kanji {
		for _, u := range index.CheckCompounds(k) {
			fmt.Fprintln(out, u)
			unconfirmed++
		}
	}
	fmt.Fprintf(out, "%d unconfirmed special readings\n", unconfirmed)
	return nil
}
