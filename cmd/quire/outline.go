package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/henri123lemoine/quire/internal/content"
)

var outlineCmd = &cobra.Command{
	Use:   "outline FILE",
	Short: "Print the headings of a document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := content.Load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !src.IsTabbed() {
			printHeadings(out, src.Nodes(0), "")
			return nil
		}
		for i, tab := range src.Tabs {
			fmt.Fprintln(out, "["+tab.Title+"]")
			printHeadings(out, src.Nodes(i), "  ")
		}
		return nil
	},
}

func printHeadings(w io.Writer, nodes []content.Node, indent string) {
	for _, h := range content.Headings(nodes) {
		fmt.Fprintf(w, "%s%s%s\n", indent, strings.Repeat("  ", max(h.Level-1, 0)), h.Text)
	}
}
