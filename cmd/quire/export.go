package main

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/henri123lemoine/quire/internal/content"
	"github.com/henri123lemoine/quire/internal/render"
	"github.com/henri123lemoine/quire/internal/render/html"
)

var (
	exportOutput   string
	exportTitle    string
	exportStrict   bool
	exportFragment bool
)

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Export a document as HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := content.Load(args[0])
		if err != nil {
			return err
		}

		out, faults, err := exportHTML(src)
		if err != nil {
			return err
		}
		for _, f := range faults {
			fmt.Fprintln(os.Stderr, "Warning:", f)
		}
		if exportStrict && len(faults) > 0 {
			return fmt.Errorf("%d node(s) could not be rendered", len(faults))
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		if err := os.WriteFile(exportOutput, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", exportOutput, err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "page title (default first heading)")
	exportCmd.Flags().BoolVar(&exportStrict, "strict", false, "fail if any node could not be rendered")
	exportCmd.Flags().BoolVar(&exportFragment, "fragment", false, "write only the body markup")
}

// exportHTML renders src with the configured gallery defaults and, unless a
// fragment was asked for, wraps it in a standalone page.
func exportHTML(src *content.Source) (string, []render.Fault, error) {
	h := html.New(html.Options{
		Columns:     appConfig.Gallery.Columns,
		Spacing:     appConfig.Gallery.Spacing,
		AspectRatio: appConfig.Gallery.AspectRatio,
	})

	var body template.HTML
	if src.IsTabbed() {
		var err error
		body, err = h.RenderTabs(src.Tabs)
		if err != nil {
			return "", nil, err
		}
	} else {
		body = h.Render(src.Nodes(0))
	}
	faults := h.Faults()

	if exportFragment || !appConfig.Export.Standalone {
		return string(body) + "\n", faults, nil
	}

	opts := html.PageOptions{
		Title:      exportTitle,
		Stylesheet: appConfig.Export.Stylesheet,
	}
	if opts.Title == "" {
		opts.Title = src.Title()
	}
	if appConfig.Export.TableOfContents {
		toc, withAnchors, err := html.TableOfContents(body)
		if err != nil {
			return "", nil, err
		}
		opts.TOC = toc
		body = withAnchors
	}

	page, err := html.Page(body, opts)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSpace(page) + "\n", faults, nil
}
