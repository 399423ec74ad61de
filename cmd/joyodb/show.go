package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/joyodb/pkg/db"
	"github.com/japaniel/joyodb/pkg/jmdict"
	"github.com/japaniel/joyodb/pkg/kana"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kanji>",
		Short: "Print a stored entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShow(cmd, args[0])
		},
	}
}

func (a *app) runShow(cmd *cobra.Command, char string) error {
	conn, err := db.Open(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer conn.Close()

	k, err := db.GetKanji(conn, char)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s is not in %s", char, a.cfg.Database.Path)
	}
	if err != nil {
		return err
	}

	var index *jmdict.Index
	if a.cfg.JMdict.Path != "" {
		if index, err = a.loadIndex(cmd.Context()); err != nil {
			return err
		}
	}

	printKanji(cmd.OutOrStdout(), k, index)
	return nil
}

func printKanji(w io.Writer, k *db.Kanji, index *jmdict.Index) {
	fmt.Fprint(w, k.Kanji)
	if len(k.OldKanji) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(k.OldKanji, ","))
	}
	if k.StandardCharacter != "" {
		fmt.Fprintf(w, " [document: %s]", k.StandardCharacter)
	}
	fmt.Fprintln(w)

	for _, r := range k.Readings {
		fmt.Fprintf(w, "  %s %s (%s)", r.Reading, kana.RomajiFor(r.Kind, r.Reading), r.Kind)
		if r.Uncommon {
			fmt.Fprint(w, " uncommon")
		}
		if r.VariationOf != "" {
			fmt.Fprintf(w, " variation of %s", r.VariationOf)
		}
		fmt.Fprintln(w)

		examples := make([]string, len(r.Examples))
		for i, e := range r.Examples {
			examples[i] = e.Example
			if e.POS != "" {
				examples[i] += " [" + e.POS + "]"
			}
			if e.Literary {
				examples[i] += " [literary]"
			}
		}
		if len(examples) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(examples, "，"))
		}
		if len(r.AlternateOrthographies) > 0 {
			fmt.Fprintf(w, "    ⇔ %s\n", strings.Join(r.AlternateOrthographies, "，"))
		}
		if r.Notes != "" {
			fmt.Fprintf(w, "    note: %s\n", r.Notes)
		}
	}

	printPairs(w, "compound", k.CompoundReadings, index)
	printPairs(w, "placename", k.PlacenameReadings, index)
	if k.Notes != "" {
		fmt.Fprintf(w, "  note: %s\n", k.Notes)
	}
}

func printPairs(w io.Writer, label string, pairs map[string]string, index *jmdict.Index) {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, orthography := range keys {
		fmt.Fprintf(w, "  %s %s（%s）", label, orthography, pairs[orthography])
		if index != nil {
			if glosses := index.Glosses(orthography, pairs[orthography]); len(glosses) > 0 {
				fmt.Fprintf(w, ": %s", strings.Join(glosses, "; "))
			}
		}
		fmt.Fprintln(w)
	}
}
