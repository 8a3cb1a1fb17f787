package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"anglicorpus/internal/services"
	"anglicorpus/internal/vocab"
)

func newVocabCommand(ctx *commandContext) *cobra.Command {
	vocabCmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect and edit the loanword vocabulary",
	}

	vocabCmd.AddCommand(newVocabListCommand(ctx))
	vocabCmd.AddCommand(newVocabShowCommand(ctx))
	vocabCmd.AddCommand(newVocabAddCommand(ctx))
	vocabCmd.AddCommand(newVocabRemoveCommand(ctx))
	vocabCmd.AddCommand(newVocabSetPOSCommand(ctx))
	vocabCmd.AddCommand(newVocabImportCommand(ctx))

	return vocabCmd
}

func newVocabListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		posFilter  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vocabulary entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vocab.Load(ctx.configValue().Paths.VocabularyPath)
			if err != nil {
				return err
			}
			var filter vocab.POS
			if strings.TrimSpace(posFilter) != "" {
				if filter, err = parsePOSArg(posFilter); err != nil {
					return err
				}
			}
			entries := make([]vocab.Entry, 0, v.Len())
			for _, entry := range v.Entries() {
				if filter == "" || entry.POS == filter {
					entries = append(entries, entry)
				}
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No vocabulary entries")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Base, entry.POS.String()})
			}
			fmt.Fprintln(out, renderTable([]string{"Loanword", "POS"}, rows, nil))
			fmt.Fprintf(out, "%d entries\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	cmd.Flags().StringVar(&posFilter, "pos", "", "Only list entries with this part of speech")
	return cmd
}

func newVocabShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <word>",
		Short: "Show an entry and the inflected forms it matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := vocab.Load(ctx.configValue().Paths.VocabularyPath)
			if err != nil {
				return err
			}
			entry, ok := v.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", vocab.ErrUnknownWord, args[0])
			}
			lw := vocab.NewLoanword(entry.Base, entry.POS)
			if jsonOutput {
				return writeJSON(cmd, struct {
					Base     string    `json:"base"`
					POS      vocab.POS `json:"pos"`
					Variants []string  `json:"variants"`
				}{entry.Base, entry.POS, lw.Variants()})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Loanword: %s\n", entry.Base)
			fmt.Fprintf(out, "POS:      %s\n", entry.POS)
			fmt.Fprintf(out, "Forms:    %s\n", strings.Join(lw.Variants(), ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the entry as JSON")
	return cmd
}

func newVocabAddCommand(ctx *commandContext) *cobra.Command {
	var posFlag string

	cmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Add a loanword (tagged by the tagging service when --pos is omitted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.configValue().Paths.VocabularyPath
			v, err := vocab.LoadOrEmpty(path)
			if err != nil {
				return err
			}
			word := strings.TrimSpace(args[0])
			pos := vocab.Other
			if strings.TrimSpace(posFlag) != "" {
				if pos, err = parsePOSArg(posFlag); err != nil {
					return err
				}
			} else {
				tagger, err := ctx.tagger()
				if err != nil {
					return err
				}
				if tagger != nil {
					if pos, err = tagger.Tag(cmd.Context(), word); err != nil {
						return fmt.Errorf("tag %q: %w (pass --pos to skip tagging)", word, err)
					}
				}
			}
			if err := v.Add(word, pos); err != nil {
				return err
			}
			if err := v.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", word, pos)
			return nil
		},
	}

	cmd.Flags().StringVar(&posFlag, "pos", "", "Part of speech: VERB, NOUN, ADJ, or OTHER")
	return cmd
}

func newVocabRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <word>",
		Short: "Remove a loanword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.configValue().Paths.VocabularyPath
			v, err := vocab.Load(path)
			if err != nil {
				return err
			}
			if err := v.Remove(args[0]); err != nil {
				return err
			}
			if err := v.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newVocabSetPOSCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-pos <word> <pos>",
		Short: "Change the part of speech of a loanword",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.configValue().Paths.VocabularyPath
			v, err := vocab.Load(path)
			if err != nil {
				return err
			}
			pos, err := parsePOSArg(args[1])
			if err != nil {
				return err
			}
			if err := v.SetPOS(args[0], pos); err != nil {
				return err
			}
			if err := v.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], pos)
			return nil
		},
	}
}

func newVocabImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <word-list|->",
		Short: "Merge a plain-text word list into the vocabulary",
		Long: `Import reads one word per line, optionally followed by a tab and a part of
speech. Words without a part of speech are tagged by the configured tagging
service, or stored as OTHER when none is configured. Existing entries keep
their tag; the merged vocabulary is sorted by base form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ctx.configValue().Paths.VocabularyPath
			v, err := vocab.LoadOrEmpty(path)
			if err != nil {
				return err
			}

			var input io.Reader
			if args[0] == "-" {
				input = cmd.InOrStdin()
			} else {
				file, err := os.Open(args[0])
				if err != nil {
					return services.Wrap(services.ErrConfiguration, "vocab", "import", "open word list", err)
				}
				defer file.Close()
				input = file
			}

			tagger, err := ctx.tagger()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result, err := v.Import(cmd.Context(), input, tagger, logger)
			if err != nil {
				return err
			}
			if err := v.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Read %d words, added %d (tagged %d, untagged %d); vocabulary has %d entries\n",
				result.Read, result.Added, result.Tagged, result.Untagged, v.Len())
			return nil
		},
	}
}

func parsePOSArg(value string) (vocab.POS, error) {
	pos, err := vocab.ParsePOS(value)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "vocab", "", "invalid part of speech", err)
	}
	return pos, nil
}
