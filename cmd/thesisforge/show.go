package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-thesisforge/pkg/catalog"
)

func (a *app) showCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the formatting rules of one institution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := a.logger()
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(cmd, logger)
			if err != nil {
				printCatalogError(a.stderr, err)
				return errRunFailed
			}
			rule, ok := cat.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown identifier %q", args[0])
			}

			markdown := ruleMarkdown(rule)
			if plain {
				_, err := fmt.Fprint(a.stdout, markdown)
				return err
			}
			rendered, err := a.renderMarkdown(markdown)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(a.stdout, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print raw markdown")
	return cmd
}

// renderMarkdown styles markdown for the terminal, falling back to the
// no-colour style when stdout is not one.
func (a *app) renderMarkdown(markdown string) (string, error) {
	style := glamour.WithAutoStyle()
	if termenv.NewOutput(a.stdout).Profile == termenv.Ascii {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	return r.Render(markdown)
}

func ruleMarkdown(rule catalog.FormatRule) string {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rule.Name)
	fmt.Fprintf(&b, "**%s** · `%s`", rule.CourseName(), rule.ID)
	if rule.Year != "" {
		fmt.Fprintf(&b, " · %s", rule.Year)
	}
	b.WriteString("\n\n")

	b.WriteString("| Parameter | Value |\n|---|---|\n")
	m := rule.Margins
	fmt.Fprintf(&b, "| Margins | top %sin, bottom %sin, left %sin, right %sin |\n", num(m.Top), num(m.Bottom), num(m.Left), num(m.Right))
	fmt.Fprintf(&b, "| Font | %s %spt |\n", rule.Font.Name, num(rule.Font.Size))
	fmt.Fprintf(&b, "| Line spacing | %s |\n", num(rule.LineSpacing))
	fmt.Fprintf(&b, "| Reference style | %s |\n", rule.ReferenceStyle)
	fmt.Fprintf(&b, "| Page size | %s |\n", rule.Paper())
	fmt.Fprintf(&b, "| Output folder | %s |\n\n", rule.Folder())

	b.WriteString("## Preliminary pages\n\n")
	if len(rule.Preliminary) == 0 {
		b.WriteString("_none_\n")
	}
	for i, section := range rule.Preliminary {
		fmt.Fprintf(&b, "%d. %s\n", i+1, section)
	}

	b.WriteString("\n## Chapters\n\n")
	for i, chapter := range rule.ChapterTitles() {
		fmt.Fprintf(&b, "%d. %s\n", i+1, chapter)
	}
	return b.String()
}
