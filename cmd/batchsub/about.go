package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "batchsub: translate SRT subtitles in small batches through a chat model,")
			fmt.Fprintln(out, "saving progress after every batch.")
			fmt.Fprintln(out, "https://github.com/oukeidos/batchsub")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
