package main

import (
	"fmt"

	"github.com/oukeidos/batchsub/internal/srt"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.srt>",
		Short: "Report what the translator and an independent SRT reader see in a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			blocks, err := srt.Load(path)
			if err != nil {
				return err
			}
			rep, err := srt.Inspect(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "File: %s\n", path)
			fmt.Fprintf(out, "Blocks: %d\n", len(blocks))
			fmt.Fprintf(out, "Items (reader): %d\n", rep.Items)
			if rep.Items > 0 {
				fmt.Fprintf(out, "Span: %s --> %s\n", srt.FormatTimestamp(rep.First), srt.FormatTimestamp(rep.Last))
				fmt.Fprintf(out, "Longest line: %d graphemes (item %d)\n", rep.LongestLine, rep.LongestItem)
			}
			if len(blocks) != rep.Items {
				fmt.Fprintln(out, "Warning: block counts differ; blocks not in \"<n>\\n<range>\\n<text>\\n\\n\" form are skipped by the translator.")
			}
			return nil
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
